// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger and wires the explorer session and repositories

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/logging"
)

var (
	logLevel string
	verbose  bool

	cfg    *config.Config
	logger *zap.Logger
	app    *App
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "News search and saved-article manager with MCP integration",
	Long: `
███╗   ██╗███████╗██╗    ██╗███████╗██████╗ ███████╗███████╗██╗  ██╗
████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝
██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║  ██║█████╗  ███████╗█████╔╝
██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██║  ██║██╔══╝  ╚════██║██╔═██╗
██║ ╚████║███████╗╚███╔███╔╝███████║██████╔╝███████╗███████║██║  ██╗
╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝

Search this week's news and keep the articles worth reading.

Saved articles live on the explorer server; sign in to bookmark them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(level, verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		// setup must run even when the stored config cannot be wired
		if cmd == setupCmd || cmd == versionCmd {
			return nil
		}

		app, err = NewApp(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			app.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: from config, else warn)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "human-readable development logging")
}
