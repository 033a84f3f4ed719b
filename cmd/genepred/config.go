package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKind is the value type a configuration key accepts.
type configKind int

const (
	kindBool configKind = iota
	kindInt
	kindString
)

// knownConfigKeys maps every settable key to its value type. Unknown keys
// are rejected so typos do not silently persist.
var knownConfigKeys = map[string]configKind{
	"verbose":              kindBool,
	"convert.named_extras": kindBool,
	"convert.workers":      kindInt,
	"convert.format":       kindString,
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage genepred configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.genepred.yaml.",
		Example: `  genepred config                                # show all config
  genepred config set convert.named_extras true  # emit key=value extras by default
  genepred config set convert.workers 8          # default BED parse workers
  genepred config get convert.workers            # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.genepred.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// coerceConfigValue validates key against the known-key table and converts
// value to the key's declared type.
func coerceConfigValue(key, value string) (any, error) {
	kind, ok := knownConfigKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key %q (known keys: %s)", key, knownConfigKeyList())
	}

	switch kind {
	case kindBool:
		switch strings.ToLower(value) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("key %q takes a boolean, got %q", key, value)
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("key %q takes an integer, got %q", key, value)
		}
		return n, nil
	default:
		return value, nil
	}
}

func knownConfigKeyList() string {
	keys := make([]string, 0, len(knownConfigKeys))
	for key := range knownConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func runConfigSet(key, value string) error {
	coerced, err := coerceConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, coerced)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".genepred.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, coerced, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if _, ok := knownConfigKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, knownConfigKeyList())
	}
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
