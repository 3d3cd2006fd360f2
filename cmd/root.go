package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/cqlhl/internal/config"
	"github.com/zjrosen/cqlhl/internal/log"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply does not race with the input loop.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is looked up before the user config.
const localConfigPath = ".cqlhl/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cqlhl",
	Short: "Syntax highlighting for CQL corpus queries",
	Long: `cqlhl highlights Corpus Query Language queries, extracts the attributes,
structures and paradigmatic query items they mention, and explains where a
query stops being valid. Without a subcommand it opens the interactive
playground.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runPlayground,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .cqlhl/config.yaml, then ~/.config/cqlhl/config.yaml)")
	flags.BoolVarP(&debugFlag, "debug", "d", false, "write a debug log (also CQLHL_DEBUG)")
	flags.String("corpus", "", "corpus whose schema marks known attributes")
	flags.String("schema-dir", "", "directory with <corpus>.yaml schema files")
	flags.StringP("supertype", "t", "", "query supertype: conc, pquery or wlist")
	flags.StringP("locale", "l", "", "message language: en or cs")
	flags.Bool("wrap", false, "insert line breaks into long queries")
	bindFlags()
}

func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("corpus", flags.Lookup("corpus"))
	_ = viper.BindPFlag("schema_dir", flags.Lookup("schema-dir"))
	_ = viper.BindPFlag("supertype", flags.Lookup("supertype"))
	_ = viper.BindPFlag("locale", flags.Lookup("locale"))
	_ = viper.BindPFlag("wrap_long_query", flags.Lookup("wrap"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("corpus", defaults.Corpus)
	viper.SetDefault("supertype", defaults.Supertype)
	viper.SetDefault("locale", defaults.Locale)
	viper.SetDefault("format", defaults.Format)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("cqlhl")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .cqlhl/config.yaml (current directory)
		// 2. ~/.config/cqlhl/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "cqlhl"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Without a config file the defaults apply; "cqlhl config init" writes one.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setup starts debug logging and validates the merged configuration.
func setup(cmd *cobra.Command, _ []string) error {
	if err := startLogging(cmd); err != nil {
		return err
	}
	return cfg.Validate()
}

func startLogging(cmd *cobra.Command) error {
	if debugFlag || os.Getenv("CQLHL_DEBUG") != "" {
		logPath := os.Getenv("CQLHL_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "cqlhl")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		cobra.OnFinalize(cleanup)
		log.Info(log.CatConfig, "cqlhl starting", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	}
	return nil
}

// configFilePath is the file settings are saved to.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return localConfigPath
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
