package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/faris-sait/ClauseGuard24/config"
	"github.com/faris-sait/ClauseGuard24/internal/analyzer"
	"github.com/faris-sait/ClauseGuard24/internal/api"
	"github.com/faris-sait/ClauseGuard24/internal/chunk"
	"github.com/faris-sait/ClauseGuard24/internal/extract"
	"github.com/faris-sait/ClauseGuard24/internal/llm"
	"github.com/faris-sait/ClauseGuard24/internal/metrics"
	"github.com/faris-sait/ClauseGuard24/internal/notify"
	"github.com/faris-sait/ClauseGuard24/internal/store"
)

// serveCmd is the cobra command that starts the analysis API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the clauseguard api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().String("config", "./config/.config.yaml", "config file location")
}

// serve initializes dependencies and starts the analysis API server
func serve(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	m := metrics.New(prometheus.DefaultRegisterer)

	archive := setupStore(cfg)
	if archive != nil {
		defer func() { _ = archive.Close() }()
	}

	a, err := setupAnalyzer(cfg, m)
	if err != nil {
		return fmt.Errorf("setting up analyzer: %w", err)
	}

	handler := api.NewRouter(api.RouterConfig{
		Analyzer: a,
		Archive:  asArchive(archive),
		Notifier: asNotifier(setupNotifier(cfg)),
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      http.MaxBytesHandler(handler, cfg.Server.MaxBodySize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Msg("starting clauseguard service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// setupAnalyzer builds the analysis pipeline from config
func setupAnalyzer(cfg *config.Config, m *metrics.Metrics) (*analyzer.Analyzer, error) {
	extractor := extract.New(
		extract.WithHTTPClient(fetchClient(cfg)),
		extract.WithUserAgent(cfg.Fetcher.UserAgent),
		extract.WithMaxBodyBytes(cfg.Fetcher.MaxBodyBytes),
		extract.WithMinDocumentChars(cfg.Fetcher.MinDocumentChars),
	)

	return analyzer.New(
		extractor,
		setupClassifier(cfg),
		analyzer.WithChunkOptions(chunk.Options{
			MaxChars:     cfg.Chunker.MaxChars,
			OverlapChars: cfg.Chunker.OverlapChars,
		}),
		analyzer.WithConcurrency(cfg.Analyzer.Concurrency),
		analyzer.WithMaxChunks(cfg.Analyzer.MaxChunks),
		analyzer.WithDeadline(cfg.Analyzer.Deadline),
		analyzer.WithMetrics(m),
	)
}

// fetchClient builds the outbound HTTP client for document acquisition
func fetchClient(cfg *config.Config) *http.Client {
	maxRedirects := cfg.Fetcher.MaxRedirects

	return &http.Client{
		Timeout: cfg.Fetcher.RequestTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}

			return nil
		},
	}
}

// setupClassifier initializes the chat completions client, falling back to the
// rule-based detector when no API key is configured
func setupClassifier(cfg *config.Config) analyzer.Classifier {
	if cfg.OpenAI.APIKey == "" {
		log.Info().Msg("no classification API key configured, using rule-based detection")
		return llm.NewRuleClassifier()
	}

	client, err := llm.New(
		cfg.OpenAI.APIKey,
		llm.WithBaseURL(cfg.OpenAI.BaseURL),
		llm.WithModel(cfg.OpenAI.Model),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.OpenAI.RequestTimeout}),
		llm.WithSummaryMaxChars(cfg.OpenAI.SummaryMaxChars),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize classification client, using rule-based detection")
		return llm.NewRuleClassifier()
	}

	log.Info().Str("model", cfg.OpenAI.Model).Msg("classification client configured")

	return client
}

// setupStore initializes analysis persistence from config, returning nil when unconfigured
func setupStore(cfg *config.Config) *store.Store {
	if cfg.Storage.Dir == "" {
		log.Info().Msg("analysis persistence not configured, skipping")
		return nil
	}

	s, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.Storage.Dir).Msg("failed to open analysis store")
		return nil
	}

	log.Info().Str("dir", cfg.Storage.Dir).Msg("analysis persistence configured")

	return s
}

// setupNotifier initializes the webhook notifier from config, returning nil when unconfigured
func setupNotifier(cfg *config.Config) *notify.Client {
	if cfg.Notifier.WebhookURL == "" {
		log.Info().Msg("analysis notifications not configured, skipping")
		return nil
	}

	client, err := notify.New(
		cfg.Notifier.WebhookURL,
		notify.WithHTTPClient(&http.Client{Timeout: cfg.Notifier.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize webhook notifier")
		return nil
	}

	log.Info().Msg("analysis notifications configured")

	return client
}

// asArchive converts a possibly-nil concrete store into the handler's
// interface without producing a non-nil interface around a nil pointer
func asArchive(s *store.Store) api.Archive {
	if s == nil {
		return nil
	}

	return s
}

// asNotifier converts a possibly-nil notifier into the handler's interface
func asNotifier(c *notify.Client) api.Notifier {
	if c == nil {
		return nil
	}

	return c
}
