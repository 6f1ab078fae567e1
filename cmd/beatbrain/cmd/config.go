package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing beatbrain configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration values in YAML format.

This shows all configuration options after defaults, the config file and
environment variables have been applied. You can redirect this output to a
file to create a configuration template:

  beatbrain config dump > config.yaml

Configuration can be set via:
  - Config file (config.yaml, $HOME/.beatbrain/config.yaml, /etc/beatbrain/config.yaml)
  - Environment variables (BEATBRAIN_SERVER_PORT, BEATBRAIN_DATABASE_PATH, etc.)
  - Command-line flags (for some options)

Environment variables use the BEATBRAIN_ prefix and underscores for nesting.
Example: server.port -> BEATBRAIN_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	fmt.Println("# beatbrain configuration")
	fmt.Println("# Durations accept Go syntax, e.g. 30s, 5m, 1h.")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}
