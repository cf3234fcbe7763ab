// Command ava is the main entry point for the Ava interview server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"golang.org/x/sync/errgroup"

	"github.com/TejasKumarBoddu1/ava/internal/config"
	"github.com/TejasKumarBoddu1/ava/internal/health"
	"github.com/TejasKumarBoddu1/ava/internal/interview"
	"github.com/TejasKumarBoddu1/ava/internal/observe"
	"github.com/TejasKumarBoddu1/ava/internal/resilience"
	"github.com/TejasKumarBoddu1/ava/internal/speech"
	"github.com/TejasKumarBoddu1/ava/internal/web"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/llm"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/llm/anyllm"
	oallm "github.com/TejasKumarBoddu1/ava/pkg/provider/llm/openai"
	"github.com/TejasKumarBoddu1/ava/pkg/store"
	"github.com/TejasKumarBoddu1/ava/pkg/store/memstore"
	"github.com/TejasKumarBoddu1/ava/pkg/store/postgres"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "ava: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "ava: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logLevel := new(slog.LevelVar)
	logLevel.Set(slogLevel(cfg.Server.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("ava starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "ava",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Language model ────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBackends(reg)

	model, err := buildModel(cfg, reg)
	if err != nil {
		slog.Error("failed to build language model", "err", err)
		return 1
	}

	// ── Session store ─────────────────────────────────────────────────────────
	st, checkers, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "err", err)
		return 1
	}
	defer closeStore()

	// ── Speech path ───────────────────────────────────────────────────────────
	// The gateway relays synthesis to whichever browser client is attached;
	// the manager queues utterances so the interviewer never talks over
	// itself and the microphone stays gated while it speaks.
	gateway := web.NewSpeechGateway()
	if cfg.Interview.VoiceName != "" {
		gateway.SetPreferredVoice(cfg.Interview.VoiceName)
	}

	speechOpts := []speech.ManagerOption{
		speech.WithOnResume(gateway.Resume),
		speech.WithMetrics(metrics),
	}
	if cfg.Interview.ResumeMode != "" {
		speechOpts = append(speechOpts, speech.WithResumeMode(speech.ResumeMode(cfg.Interview.ResumeMode)))
	}
	if cfg.Interview.ResumeDelaySeconds > 0 {
		speechOpts = append(speechOpts, speech.WithResumeDelay(time.Duration(cfg.Interview.ResumeDelaySeconds)*time.Second))
	}
	speaker := speech.NewManager(gateway, speechOpts...)

	// ── Interview controller ──────────────────────────────────────────────────
	ctrl := interview.NewController(st, model, speaker,
		interview.WithLogger(logger),
		interview.WithMetrics(metrics))

	// ── HTTP server ───────────────────────────────────────────────────────────
	apiOpts := []web.APIOption{}
	if cfg.Speech.Language != "" {
		apiOpts = append(apiOpts, web.WithSpeechLanguage(cfg.Speech.Language))
	}
	if filterOpts := filterOptions(cfg.Speech); len(filterOpts) > 0 {
		apiOpts = append(apiOpts, web.WithFilterOptions(filterOpts...))
	}
	if cfg.Interview.DefaultDurationMinutes > 0 {
		apiOpts = append(apiOpts, web.WithDefaultDuration(cfg.Interview.DefaultDurationMinutes))
	}
	api := web.NewAPI(ctrl, st, speaker, gateway, metrics, logger, apiOpts...)

	srvCfg := web.ServerConfig{Addr: cfg.Server.ListenAddr}
	if srvCfg.Addr == "" {
		srvCfg.Addr = ":8080"
	}
	if cfg.Server.TLS != nil {
		srvCfg.CertFile = cfg.Server.TLS.CertFile
		srvCfg.KeyFile = cfg.Server.TLS.KeyFile
	}
	srv := web.NewServer(srvCfg, api, metrics, logger, checkers...)

	// ── Config watcher ────────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		d := config.Diff(old, new)
		if d.LogLevelChanged {
			logLevel.Set(slogLevel(d.NewLogLevel))
			slog.Info("log level updated", "level", d.NewLogLevel)
		}
		if d.InterviewChanged || d.SpeechChanged || d.ProvidersChanged {
			slog.Warn("interview, speech, or provider settings changed; restart to apply")
		}
	})
	if err != nil {
		slog.Warn("config watcher unavailable", "err", err)
	} else {
		defer watcher.Stop()
	}

	printStartupSummary(cfg, srvCfg.Addr)
	slog.Info("server ready — press Ctrl+C to shut down")

	// ── Run ───────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return speaker.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Language model wiring ─────────────────────────────────────────────────────

// registerBackends wires the factories for every interview backend. Gemini
// and ChatGPT go through the any-llm gateway; Grok uses the OpenAI-compatible
// xAI endpoint directly.
func registerBackends(reg *config.Registry) {
	reg.RegisterLLM(config.BackendGemini, func(entry config.ProviderEntry) (llm.Provider, error) {
		return anyllm.NewGemini(entry.Model, anyllmOptions(entry)...)
	})
	reg.RegisterLLM(config.BackendChatGPT, func(entry config.ProviderEntry) (llm.Provider, error) {
		return anyllm.NewOpenAI(entry.Model, anyllmOptions(entry)...)
	})
	reg.RegisterLLM(config.BackendGrok, func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oallm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oallm.WithBaseURL(entry.BaseURL))
		}
		return oallm.NewGrok(entry.APIKey, entry.Model, opts...)
	})
}

func anyllmOptions(entry config.ProviderEntry) []anyllmlib.Option {
	var opts []anyllmlib.Option
	if entry.APIKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
	}
	if entry.BaseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
	}
	return opts
}

// buildModel instantiates the default backend and layers a failover group
// over every other backend that has credentials configured.
func buildModel(cfg *config.Config, reg *config.Registry) (llm.Provider, error) {
	primary := cfg.Providers.Default
	if primary == "" {
		primary = config.BackendGemini
	}

	p, err := reg.CreateLLM(primary, cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", primary, err)
	}
	slog.Info("provider created", "backend", primary, "model", cfg.Providers.Entry(primary).Model)

	fb := resilience.NewLLMFallback(p, string(primary), resilience.FallbackConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{MaxFailures: 3},
	})
	for _, backend := range []config.Backend{config.BackendGemini, config.BackendChatGPT, config.BackendGrok} {
		if backend == primary || cfg.Providers.Entry(backend).APIKey == "" {
			continue
		}
		alt, err := reg.CreateLLM(backend, cfg.Providers)
		if err != nil {
			slog.Warn("skipping fallback backend", "backend", backend, "err", err)
			continue
		}
		fb.AddFallback(string(backend), alt)
		slog.Info("fallback provider created", "backend", backend)
	}
	return fb, nil
}

// ── Session store wiring ──────────────────────────────────────────────────────

// buildStore opens the configured store and returns it together with any
// readiness checkers and a close function.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, []health.Checker, func(), error) {
	if cfg.Storage.Kind == config.StorePostgres {
		pg, err := postgres.NewStore(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		slog.Info("session store opened", "kind", "postgres")
		checker := health.Checker{Name: "database", Check: pg.Ping}
		return pg, []health.Checker{checker}, pg.Close, nil
	}
	slog.Info("session store opened", "kind", "memory")
	return memstore.New(), nil, func() {}, nil
}

// ── Speech filter wiring ──────────────────────────────────────────────────────

func filterOptions(cfg config.SpeechConfig) []speech.FilterOption {
	var opts []speech.FilterOption
	if cfg.MinTranscriptLength > 0 {
		opts = append(opts, speech.WithMinLength(cfg.MinTranscriptLength))
	}
	if cfg.NearDupThreshold > 0 {
		opts = append(opts, speech.WithNearDupThreshold(cfg.NearDupThreshold))
	}
	return opts
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, addr string) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║           Ava — startup summary       ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printBackend("Gemini", cfg.Providers.Gemini, cfg.Providers.Default == config.BackendGemini)
	printBackend("ChatGPT", cfg.Providers.ChatGPT, cfg.Providers.Default == config.BackendChatGPT)
	printBackend("Grok", cfg.Providers.Grok, cfg.Providers.Default == config.BackendGrok)
	printRow("Storage", storageLabel(cfg.Storage))
	printRow("Resume mode", resumeLabel(cfg.Interview))
	printRow("Listen addr", addr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printBackend(name string, entry config.ProviderEntry, isDefault bool) {
	value := "(no key)"
	if entry.APIKey != "" {
		value = "configured"
		if entry.Model != "" {
			value = entry.Model
		}
		if isDefault {
			value += " *"
		}
	}
	printRow(name, value)
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-14s  : %-19s ║\n", label, value)
}

func storageLabel(cfg config.StorageConfig) string {
	if cfg.Kind == config.StorePostgres {
		return "postgres"
	}
	return "memory"
}

func resumeLabel(cfg config.InterviewConfig) string {
	if cfg.ResumeMode == config.ResumeManual {
		return "manual"
	}
	delay := cfg.ResumeDelaySeconds
	if delay == 0 {
		delay = 3
	}
	return fmt.Sprintf("auto (%ds)", delay)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
