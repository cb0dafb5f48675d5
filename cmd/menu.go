package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/drivemenu/internal/browser"
	"github.com/teemow/drivemenu/internal/config"
	"github.com/teemow/drivemenu/internal/drive"
	"github.com/teemow/drivemenu/internal/editor"
	"github.com/teemow/drivemenu/internal/google"
	"github.com/teemow/drivemenu/internal/instrumentation"
	"github.com/teemow/drivemenu/internal/logging"
	"github.com/teemow/drivemenu/internal/progress"
	"github.com/teemow/drivemenu/internal/server"
	"github.com/teemow/drivemenu/internal/terminal"
	"github.com/teemow/drivemenu/internal/uploader"
)

type menuOptions struct {
	editor      string
	downloadDir string
	envFile     string
	logLevel    string
	logFormat   string
	metricsAddr string
}

func (o *menuOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.editor, "editor", "", "Editor command for view/edit (default: $DRIVEMENU_EDITOR, $VISUAL, $EDITOR or nvim)")
	f.StringVar(&o.downloadDir, "download-dir", "", "Directory for downloaded and edited files (default: $DRIVEMENU_DOWNLOAD_DIR or .)")
	f.StringVar(&o.envFile, "env-file", "", "Path of the .env file with credentials (default: $DRIVEMENU_ENV_FILE or .env)")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $DRIVEMENU_LOG_LEVEL or warn)")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: text, json (default: $DRIVEMENU_LOG_FORMAT or text)")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (requires INSTRUMENTATION_ENABLED=true)")
}

// settings resolves the effective settings: flags, then environment
// (including the .env file), then defaults.
func (o *menuOptions) settings() (config.Settings, error) {
	envFile := o.envFile
	if envFile == "" {
		envFile = config.DefaultSettings().DotEnvFile
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Settings{}, err
	}

	s := config.DefaultSettings()
	s.DotEnvFile = envFile
	if o.editor != "" {
		s.Editor = o.editor
	}
	if o.downloadDir != "" {
		s.DownloadDir = o.downloadDir
	}
	if o.logLevel != "" {
		s.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		s.LogFormat = o.logFormat
	}

	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func runMenu(cmd *cobra.Command, opts *menuOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := opts.settings()
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	creds, err := config.LoadCredentials(settings.DotEnvFile)
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()
	provider.AuditLogger().SetLogger(logger)

	if opts.metricsAddr != "" {
		metricsServer, err := startMetricsServer(opts.metricsAddr, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	auth, err := google.NewAuthenticator(creds, google.WithMetrics(provider.Metrics()))
	if err != nil {
		return err
	}
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return err
	}

	client, err := drive.NewClient(ctx, httpClient,
		drive.WithMetrics(provider.Metrics()),
		drive.WithAuditLogger(provider.AuditLogger()),
		drive.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := terminal.NewPrinter(out)
	newReporter := func() progress.Reporter { return progress.New(out) }
	adapter := logging.NewSlogAdapter(logger)

	nav, err := browser.New(browser.Config{
		Storage: client,
		Uploader: uploader.New(client, printer,
			uploader.WithLogger(adapter),
			uploader.WithProgress(newReporter),
		),
		Editor:      editor.New(settings.Editor),
		Prompter:    terminal.NewPrompter(cmd.InOrStdin(), out),
		Printer:     printer,
		Screen:      terminal.NewScreen(out),
		DownloadDir: settings.DownloadDir,
		Progress:    newReporter,
		Metrics:     provider.Metrics(),
		Logger:      adapter,
	})
	if err != nil {
		return err
	}

	return nav.Run(ctx, browser.RootLocation())
}

func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}
	if err := metricsServer.Start(); err != nil {
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	}
	return metricsServer, nil
}
