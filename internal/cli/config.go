package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShogunPanda/cambi/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect cambi configuration",
	Long: `Inspect cambi configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CAMBI_*, then GH_RELEASE_TOKEN for the token)
  3. Project config (./cambi.yml)
  4. User config (<user config dir>/cambi.yml)
  5. Built-in defaults

--config replaces both config files; files ending in .json are read as JSON.`,
	Example: `  # Show the resolved configuration
  cambi config show

  # Show where the config files are looked up
  cambi config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as YAML (token masked)",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg.Redacted()); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the user and project config file paths",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if userPath, err := config.UserConfigPath(); err == nil {
			fmt.Fprintf(out, "user:    %s\n", userPath)
		}
		fmt.Fprintf(out, "project: %s\n", config.ProjectConfigPath("."))
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupSettings
	configCmd.AddCommand(configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
