package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage smarter configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.smarter.yaml.
Without a subcommand the settings and the assembly registry of every species
are printed.`,
		Example: `  smarter config                                        # settings and assemblies
  smarter config set db /data/smarter.duckdb            # use another database
  smarter config set workers 8
  smarter config assembly sheep OAR5 Oar_rambouillet_v1.0 "SNPchiMp v.3"
  smarter config get species`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (db, species, workers, assemblies.<species>.<NAME>.version|source)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "assembly <species> <NAME> <version> <source>",
		Short: "Register an assembly name for a species",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigAssembly(cmd.OutOrStdout(), args[0], args[1], args[2], args[3])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	})

	return cmd
}

// configView is what `smarter config` prints: plain settings plus the
// effective assembly registry (defaults merged with configured names).
type configView struct {
	File       string                        `yaml:"file,omitempty"`
	Settings   map[string]any                `yaml:"settings"`
	Assemblies map[string]variant.Assemblies `yaml:"assemblies"`
}

func runConfigShow(w io.Writer) error {
	view := configView{
		File:       viper.ConfigFileUsed(),
		Settings:   viper.AllSettings(),
		Assemblies: make(map[string]variant.Assemblies),
	}
	delete(view.Settings, "assemblies")

	for _, species := range variant.AllSpecies {
		asm, err := assembliesFor(species)
		if err != nil {
			return err
		}
		view.Assemblies[species.String()] = asm
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// settingValue validates a plain setting and returns the value to store.
func settingValue(key, value string) (any, error) {
	switch key {
	case "db":
		if value == "" {
			return nil, fmt.Errorf("db: empty path")
		}
		return value, nil
	case "species":
		s, err := variant.ParseSpecies(value)
		if err != nil {
			return nil, err
		}
		return s.String(), nil
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("workers: %q is not a non-negative integer", value)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unknown configuration key %q", key)
}

// assemblyKey splits assemblies.<species>.<name>.<field>.
func assemblyKey(key string) (variant.Species, string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 4 || parts[0] != "assemblies" {
		return 0, "", "", fmt.Errorf("unknown configuration key %q", key)
	}
	species, err := variant.ParseSpecies(parts[1])
	if err != nil {
		return 0, "", "", err
	}
	if parts[3] != "version" && parts[3] != "source" {
		return 0, "", "", fmt.Errorf("%s: field must be version or source", key)
	}
	return species, parts[2], parts[3], nil
}

func runConfigSet(w io.Writer, key, value string) error {
	key = strings.ToLower(key)

	if !strings.HasPrefix(key, "assemblies.") {
		v, err := settingValue(key, value)
		if err != nil {
			return err
		}
		viper.Set(key, v)
		return writeConfig(w, key, v)
	}

	species, name, field, err := assemblyKey(key)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("%s: empty value", key)
	}
	other := "source"
	if field == "source" {
		other = "version"
	}
	prefix := "assemblies." + species.String() + "." + name
	if viper.GetString(prefix+"."+other) == "" {
		return fmt.Errorf("%s has no %s; use 'smarter config assembly %s %s <version> <source>'",
			prefix, other, species, strings.ToUpper(name))
	}

	viper.Set(prefix+"."+field, value)
	if _, err := assembliesFor(species); err != nil {
		return err
	}
	return writeConfig(w, key, value)
}

func runConfigAssembly(w io.Writer, speciesName, name, version, source string) error {
	species, err := variant.ParseSpecies(speciesName)
	if err != nil {
		return err
	}
	if name == "" || version == "" || source == "" {
		return fmt.Errorf("assembly name, version and source are required")
	}

	key := "assemblies." + species.String() + "." + strings.ToLower(name)
	a := variant.Assembly{Version: version, Source: source}
	viper.Set(key+".version", a.Version)
	viper.Set(key+".source", a.Source)
	if _, err := assembliesFor(species); err != nil {
		return err
	}
	return writeConfig(w, key, a)
}

// writeConfig persists viper's settings to the config in use, or to
// ~/.smarter.yaml when none was read.
func writeConfig(w io.Writer, key string, value any) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, ".smarter.yaml")
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(w, "Set %s = %v in %s\n", key, value, path)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, viper.Get(key))
	return nil
}
