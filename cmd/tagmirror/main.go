package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/relforge/tagmirror/internal/app"
	"github.com/relforge/tagmirror/internal/config"
	"github.com/relforge/tagmirror/internal/gitrepo"
	"github.com/relforge/tagmirror/internal/utils"
	"github.com/relforge/tagmirror/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tagmirror",
	Short: "Archive files from a repository's release tags",
	Long: `Tagmirror walks the release tags of a source repository in creation
order, copies a fixed set of files into a tracking repository, and commits
each version's snapshot with a message that records which files were present.

The tracking repository's history becomes a browsable record of how those
files evolved across releases. Runs are idempotent: tags whose marker commit
already exists are skipped.`,
	Version: version.Short(),
	Args:    cobra.NoArgs,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tagmirror/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Run flags
	rootCmd.Flags().String("start-from", "", "Begin processing at the given tag (inclusive)")
	rootCmd.Flags().IntP("limit", "l", 0, "Max tags to process (0=unlimited)")
	rootCmd.Flags().Bool("dry-run", false, "Report tags without touching either repository")
	rootCmd.Flags().String("source", "", "Source repository path")
	rootCmd.Flags().String("tracking", "", "Tracking repository path")

	// Bind path flags to viper so they shadow config keys
	_ = viper.BindPFlag("source.path", rootCmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("tracking.path", rootCmd.Flags().Lookup("tracking"))

	// Add subcommands
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// runLogger builds the CLI logger from the effective config; --verbose
// forces debug level. A nil out selects stderr.
func runLogger(cfg *config.Config, verbose bool, out io.Writer) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  out,
		Verbose: verbose,
	})
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = runLogger(cfg, verbose, nil)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	startFrom, _ := cmd.Flags().GetString("start-from")
	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: cfg,
		Logger: log,
		Run: app.Options{
			StartFrom: startFrom,
			Limit:     limit,
			DryRun:    dryRun,
			Verbose:   verbose,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	return orchestrator.Run(ctx)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check repository setup",
	Long:  "Verifies that the source and tracking repositories are reachable and usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking setup...")
		allPassed := true

		cfg, err := config.Load()
		fmt.Print("  Config file: ")
		if err != nil {
			fmt.Printf("WARN (%v)\n", err)
			cfg = config.Default()
		} else {
			fmt.Println("OK")
		}

		sourcePath := utils.ExpandPath(cfg.Source.Path)
		fmt.Print("  Source repository: ")
		if _, err := gitrepo.OpenSource(gitrepo.SourceOptions{
			Path:      sourcePath,
			TagPrefix: cfg.Source.TagPrefix,
		}); err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Printf("OK (%s)\n", sourcePath)
		}

		trackingPath := utils.ExpandPath(cfg.Tracking.Path)
		fmt.Print("  Tracking repository: ")
		if _, err := gitrepo.OpenTracking(gitrepo.TrackingOptions{
			Path:        trackingPath,
			AuthorName:  cfg.Commit.AuthorName,
			AuthorEmail: cfg.Commit.AuthorEmail,
		}); err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Printf("OK (%s)\n", trackingPath)
		}

		fmt.Print("  Write permissions: ")
		if utils.IsWritable(trackingPath) {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Printf("  Ledger backend: %s\n", cfg.Ledger.Backend)

		fmt.Println()
		if allPassed {
			fmt.Println("All checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
