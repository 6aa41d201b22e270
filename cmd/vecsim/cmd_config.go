package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vecsim/internal/config"
	"github.com/nvandessel/vecsim/internal/elemtype"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vecsim configuration",
		Long: `View and modify vecsim configuration settings.

Configuration is stored in ~/.vecsim/config.yaml.

Examples:
  vecsim config list                          # Show all settings
  vecsim config get vector.initial_capacity   # Get a specific setting
  vecsim config set vector.default_type char  # Set a setting`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

// configKeys lists the settable keys in display order.
var configKeys = []string{
	"vector.initial_capacity",
	"vector.default_type",
	"vector.base_address",
	"vector.fresh_delay",
	"string.initial_text",
	"string.min_capacity",
	"log.max_entries",
	"server.open_browser",
	"audit.enabled",
	"audit.path",
	"logging.level",
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			cfg, path, err := loadConfigFile(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(out).Encode(cfg)
			}

			fmt.Fprintf(out, "Configuration (%s):\n\n", path)
			for _, key := range configKeys {
				value, _ := getConfigValue(cfg, key)
				fmt.Fprintf(out, "  %-24s %v\n", key+":", value)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			out := cmd.OutOrStdout()

			cfg, _, err := loadConfigFile(cmd)
			if err != nil {
				return err
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(out, "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key, value := args[0], args[1]
			out := cmd.OutOrStdout()

			cfg, path, err := loadConfigFile(cmd)
			if err != nil {
				return err
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			}
			fmt.Fprintf(out, "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// loadConfigFile loads the config named by --config, or the default file,
// and returns it with the path it will be saved to.
func loadConfigFile(cmd *cobra.Command) (*config.VecsimConfig, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, path, nil
	}

	path, err := config.Path()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.VecsimConfig, key string) (interface{}, bool) {
	switch key {
	case "vector.initial_capacity":
		return cfg.Vector.InitialCapacity, true
	case "vector.default_type":
		return cfg.Vector.DefaultType, true
	case "vector.base_address":
		return cfg.Vector.BaseAddress, true
	case "vector.fresh_delay":
		return cfg.Vector.FreshDelay.String(), true
	case "string.initial_text":
		return cfg.String.InitialText, true
	case "string.min_capacity":
		return cfg.String.MinCapacity, true
	case "log.max_entries":
		return cfg.Log.MaxEntries, true
	case "server.open_browser":
		return cfg.Server.OpenBrowser, true
	case "audit.enabled":
		return cfg.Audit.Enabled, true
	case "audit.path":
		return valueOrDefault(cfg.Audit.Path, "(default)"), true
	case "logging.level":
		return valueOrDefault(cfg.Logging.Level, "info"), true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.VecsimConfig, key, value string) error {
	switch key {
	case "vector.initial_capacity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid capacity: %s", value)
		}
		cfg.Vector.InitialCapacity = n
	case "vector.default_type":
		t, err := elemtype.Parse(value)
		if err != nil {
			return err
		}
		cfg.Vector.DefaultType = string(t)
	case "vector.base_address":
		n, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid address: %s", value)
		}
		cfg.Vector.BaseAddress = int(n)
	case "vector.fresh_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		cfg.Vector.FreshDelay = d
	case "string.initial_text":
		cfg.String.InitialText = value
	case "string.min_capacity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid capacity: %s", value)
		}
		cfg.String.MinCapacity = n
	case "log.max_entries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid entry count: %s", value)
		}
		cfg.Log.MaxEntries = n
	case "server.open_browser":
		cfg.Server.OpenBrowser = value == "true" || value == "1"
	case "audit.enabled":
		cfg.Audit.Enabled = value == "true" || value == "1"
	case "audit.path":
		cfg.Audit.Path = value
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
