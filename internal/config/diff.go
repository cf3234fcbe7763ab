package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged  bool
	NewLogLevel      LogLevel
	InterviewChanged bool // default duration, voice, or resume settings
	SpeechChanged    bool // language or filter thresholds
	ProvidersChanged bool // keys, endpoints, models, or the default backend
}

// Any reports whether d records at least one change.
func (d ConfigDiff) Any() bool {
	return d.LogLevelChanged || d.InterviewChanged || d.SpeechChanged || d.ProvidersChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart; server address,
// TLS, and storage changes require one and are ignored here.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Interview != new.Interview {
		d.InterviewChanged = true
	}

	if old.Speech != new.Speech {
		d.SpeechChanged = true
	}

	if old.Providers != new.Providers {
		d.ProvidersChanged = true
	}

	return d
}
