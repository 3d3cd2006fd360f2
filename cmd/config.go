package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/cqlhl/internal/config"
)

// configCmd skips validation so a broken file can still be repaired.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cqlhl configuration file",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return startLogging(cmd)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default configuration",
	Long: `Write the default configuration to path, or to .cqlhl/config.yaml when no
path is given. An existing file is kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value, keeping the comments of the file",
	Long: `Set a dotted configuration key such as "supertype" or "cache.ttl" in the
config file in use. Values are read as YAML scalars, so "true" is a boolean
and "0.5" a number.`,
	Example: `  cqlhl config set supertype pquery
  cqlhl config set cache.ttl 1h`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE:      runConfigSet,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSetCmd, configShowCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := localConfigPath
	if len(args) == 1 {
		path = args[0]
	}
	if force, _ := cmd.Flags().GetBool("force"); !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	var value any = raw
	var parsed any
	if err := yaml.Unmarshal([]byte(raw), &parsed); err == nil {
		switch parsed.(type) {
		case bool, int, float64:
			value = parsed
		}
	}

	path := configFilePath()
	if err := config.SaveValue(path, key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return fmt.Errorf("%w, known keys: %s", err, strings.Join(config.Keys(), ", "))
		}
		return err
	}

	// Validate the file as it is now.
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	updated := config.Defaults()
	if err := v.Unmarshal(&updated); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%s was saved but is invalid: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "set %s in %s\n", key, path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
