package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/deck_viewer/pkg/config"
	"github.com/Dicklesworthstone/deck_viewer/pkg/logging"
	"github.com/Dicklesworthstone/deck_viewer/pkg/version"
)

var (
	// Global flags
	configPath string
	logFile    string
	logDev     bool
	verbose    bool

	// Presentation flags
	autoplay  bool
	interval  time.Duration
	start     string
	pick      bool
	watchDeck bool
	plain     bool

	// Effective settings, built in PersistentPreRunE
	cfg    *config.Config
	logger = zap.NewNop()
)

// rootCmd presents a deck
var rootCmd = &cobra.Command{
	Use:   "dv [deck]",
	Short: "dv - present slide decks in the terminal",
	Long: `dv presents a slide deck in the terminal.

Without a deck argument it shows the bundled sales analysis deck. Decks are
YAML files (title, subtitle, footer, slides) or Markdown files with slides
separated by --- lines.

Keys: ← → (or a / d) move, p toggles autoplay, 1-9 jump, t shows the slide
index, n shows speaker notes, y copies the slide, q quits.`,
	Args:          cobra.MaximumNArgs(1),
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		// The TUI owns the terminal, so stderr logging is only for line output.
		logger, err = logging.New(logging.Options{
			File:        cfg.LogFile,
			Level:       level,
			Stderr:      verbose && (cmd.HasParent() || plainMode()),
			Development: logDev,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPresent,
}

// applyFlags lets explicitly set flags override the loaded config.
func applyFlags(cmd *cobra.Command) {
	if logFile != "" {
		cfg.LogFile = logFile
	}
	flags := cmd.Root().Flags()
	if flags.Changed("autoplay") {
		cfg.Autoplay = autoplay
	}
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
}

// plainMode reports whether the line presenter should be used.
func plainMode() bool {
	return plain || !term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "Write human-readable development logs to the log file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.Flags().BoolVar(&autoplay, "autoplay", false, "Start with autoplay on")
	rootCmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Autoplay interval")
	rootCmd.Flags().StringVar(&start, "start", "", "Start slide: key or 1-based number")
	rootCmd.Flags().BoolVar(&pick, "pick", false, "Choose the start slide from a list")
	rootCmd.Flags().BoolVarP(&watchDeck, "watch", "w", false, "Reload the deck when the file changes")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Line-oriented output instead of the full-screen UI")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
