package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reez/ackamoto/internal/output"
	"github.com/reez/ackamoto/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "ackamoto",
	Short: "Track reviewer ACKs and NACKs on pull requests",
	Long: `ackamoto scans pull request comments from a GitHub repository,
classifies each comment into a review-verdict category (ACK, Concept ACK,
utACK, NACK, ...), keeps the latest verdict per reviewer per PR, and
renders the aggregate as a static page.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without writing artifacts")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/ackamoto/config.yaml)")
}

func initConfig() {
	// Local .env takes the lowest precedence; real env vars win.
	_ = godotenv.Load()

	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "ackamoto")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ACKAMOTO")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "ackamoto")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "ackamoto.db"))
	viper.SetDefault("github.repo", "bitcoin/bitcoin")
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.max_pages", 5)
	viper.SetDefault("github.pr_limit", 0)
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("lexicon.file", "")
	viper.SetDefault("exclude.authors", []string{"bitcoin-core-ci"})

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// The store is opened lazily so commands that never touch the cache
	// can run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// githubToken resolves the API token from config or the conventional
// GITHUB_TOKEN environment variable.
func githubToken() string {
	if tok := viper.GetString("github.token"); tok != "" {
		return tok
	}
	return os.Getenv("GITHUB_TOKEN")
}
