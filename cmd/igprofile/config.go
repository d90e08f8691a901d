package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"igprofile/pkg/config"
	"igprofile/pkg/ui"
)

const defaultConfigPath = ".igprofile.yaml"

const configHeader = `# igprofile configuration
#
# Values here are overridden by IGPROFILE_* environment variables (also read
# from a .env file) and by command line flags.
# Durations use Go syntax, for example 500ms, 5s or 1m.

`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igprofile configuration files.

Configuration is loaded from, in order of priority:
  - Command line flags
  - Environment variables (IGPROFILE_*)
  - .env file
  - Configuration file
  - Default values`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file with every option set to its default.

The file is created as '.igprofile.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and check it.

This command checks:
  - YAML syntax
  - Value ranges and supported formats
  - That the output and log directories can be created`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

// renderDefaultConfig returns the commented YAML written by config init
func renderDefaultConfig() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.DefaultConfig()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	data, err := renderDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Edit the configuration file")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'igprofile config validate' to check it")
	fmt.Fprintln(cmd.OutOrStdout(), "3. Run 'igprofile <handle>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	fmt.Fprintln(cmd.OutOrStdout(), "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Command line flags")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Environment variables (IGPROFILE_*)")
	fmt.Fprintln(cmd.OutOrStdout(), "3. .env file")
	if configFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "4. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "4. Configuration file: (searched in default locations)")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var problems []string
	for _, dir := range writableDirs(cfg) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create directory %s: %v", dir, err))
		}
	}
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors")
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
		}
		return fmt.Errorf("%d configuration errors", len(problems))
	}

	if !cfg.Browser.Headless {
		ui.PrintWarning("Browser runs headful; a display is required")
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Fprintln(cmd.OutOrStdout(), "\nConfiguration summary:")
	fmt.Fprintf(cmd.OutOrStdout(), "  Output: %s (%s)\n", cfg.Output.Path, cfg.Output.Format)
	fmt.Fprintf(cmd.OutOrStdout(), "  Max posts: %d\n", cfg.Extraction.MaxPosts)
	fmt.Fprintf(cmd.OutOrStdout(), "  Navigation timeout: %s\n", cfg.Navigation.Timeout)
	fmt.Fprintf(cmd.OutOrStdout(), "  Media download: %t\n", cfg.Media.Enabled)
	fmt.Fprintf(cmd.OutOrStdout(), "  Log level: %s\n", cfg.Logging.Level)
	return nil
}

// writableDirs lists the directories a run will create
func writableDirs(cfg *config.Config) []string {
	dirs := []string{filepath.Dir(cfg.Output.Path)}
	if cfg.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.File))
	}
	if cfg.Media.Enabled {
		dirs = append(dirs, cfg.Media.Directory)
	}
	return dirs
}
