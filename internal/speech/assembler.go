package speech

import (
	"strings"
	"time"
)

// defaultInterimTimeout is how long an interim hypothesis may go without an
// update before it is treated as the end of the utterance and cleared.
const defaultInterimTimeout = 2 * time.Second

// Assembler builds a clean response transcript from a stream of interim and
// final recognition events.
//
// Recognition engines re-emit overlapping hypotheses as an utterance grows,
// and restart mid-answer after pauses. The assembler keeps a confirmed-text
// accumulator plus a volatile interim suffix: interim events only ever add
// the suffix beyond what has already been seen (longest-prefix match against
// the previous event), and final events append only their delta beyond the
// confirmed text. Feeding the same interim event twice is a no-op.
//
// Assembler is not safe for concurrent use; each recognition stream owns one.
type Assembler struct {
	confirmed string
	interim   string
	lastSeen  string
	interimAt time.Time

	interimTimeout time.Duration
	now            func() time.Time
}

// AssemblerOption is a functional option for configuring an [Assembler].
type AssemblerOption func(*Assembler)

// WithInterimTimeout sets how long an interim hypothesis survives without an
// update. Default: 2 seconds.
func WithInterimTimeout(d time.Duration) AssemblerOption {
	return func(a *Assembler) {
		a.interimTimeout = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler returns a new [Assembler] configured with the supplied options.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		interimTimeout: defaultInterimTimeout,
		now:            time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Interim feeds a non-final hypothesis into the assembler.
func (a *Assembler) Interim(transcript string) {
	a.ExpireStale()
	t := strings.TrimSpace(transcript)
	if t == "" {
		return
	}
	a.interimAt = a.now()
	if t == a.lastSeen {
		return
	}
	if a.lastSeen == "" && a.confirmed != "" && strings.HasPrefix(t, a.confirmed) {
		// A restarted engine re-emitting already confirmed text.
		a.interim = strings.TrimSpace(t[len(a.confirmed):])
		a.lastSeen = t
		return
	}
	switch {
	case strings.HasPrefix(t, a.lastSeen):
		// The hypothesis grew; take just the extension.
		a.interim += t[len(a.lastSeen):]
	default:
		delta := t[commonPrefixLen(t, a.lastSeen):]
		if delta == "" {
			// The hypothesis shrank; keep what we already have.
			a.lastSeen = t
			return
		}
		a.interim = joinText(a.interim, strings.TrimSpace(delta))
	}
	a.lastSeen = t
}

// Final feeds a finalized transcript into the assembler. A final transcript
// no longer than the confirmed accumulator is stale and discarded. Either
// way the interim suffix is consumed.
func (a *Assembler) Final(transcript string) {
	a.ExpireStale()
	t := strings.TrimSpace(transcript)
	a.clearInterim()
	if t == "" {
		return
	}
	if len(t) <= len(a.confirmed) {
		return
	}
	if strings.HasPrefix(t, a.confirmed) {
		a.confirmed = t
		return
	}
	delta := strings.TrimSpace(t[commonPrefixLen(t, a.confirmed):])
	a.confirmed = joinText(a.confirmed, delta)
}

// ExpireStale clears the interim suffix if it has gone longer than the
// interim timeout without an update. Called lazily from Interim and Final;
// timer-driven callers may also invoke it directly.
func (a *Assembler) ExpireStale() {
	if a.interim == "" && a.lastSeen == "" {
		return
	}
	if a.now().Sub(a.interimAt) >= a.interimTimeout {
		a.clearInterim()
	}
}

// Confirmed returns the confirmed accumulator: the text that would be
// persisted if the answer were submitted now.
func (a *Assembler) Confirmed() string { return a.confirmed }

// Pending returns the confirmed text plus the live interim suffix, suitable
// for display while the candidate is still talking.
func (a *Assembler) Pending() string {
	a.ExpireStale()
	return joinText(a.confirmed, a.interim)
}

// Reset discards all accumulated text, ready for the next answer.
func (a *Assembler) Reset() {
	a.confirmed = ""
	a.clearInterim()
}

func (a *Assembler) clearInterim() {
	a.interim = ""
	a.lastSeen = ""
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func joinText(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
