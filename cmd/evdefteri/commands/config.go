package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/config"
	"github.com/thoreinstein/evdefteri/internal/errors"
)

var configFormat string

func init() {
	configListCmd.Flags().StringVar(&configFormat, "format", "yaml", "output format: yaml, toml, json")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage evdefteri configuration",
	Long: `Manage evdefteri configuration stored in config.yaml.

Values can also be set through EVDEFTERI_* environment variables, e.g.
EVDEFTERI_RESTORE_ATOMIC=true. Without a subcommand, lists all values.`,
	Example: `  # List all configuration
  evdefteri config

  # Get a specific value
  evdefteri config get backup_dir

  # Restore backups in a single transaction
  evdefteri config set restore.atomic true

See Also: evdefteri init`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key. Nested keys use dot notation.`,
	Example: `  # Get the database path
  evdefteri config get db_path

  # Get the import size cap
  evdefteri config get import.max_file_bytes

See Also: evdefteri config set, evdefteri config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the configuration file.

The whole configuration is validated before it is written.`,
	Example: `  # Use a key namespace
  evdefteri config set store.namespace @

  # Lower the import size cap to 1 MB
  evdefteri config set import.max_file_bytes 1048576

See Also: evdefteri config get, evdefteri config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML, TOML or JSON format.`,
	Example: `  # List all configuration
  evdefteri config list

  # As TOML
  evdefteri config list --format toml

See Also: evdefteri config get, evdefteri config set`,
	RunE: runConfigList,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	return runConfigGetWithWriter(cmd.OutOrStdout(), args[0])
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	fmt.Fprintln(w, viper.GetString(key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	return runConfigSetWithWriter(flags.Status(cmd.OutOrStdout()), args[0], args[1])
}

func runConfigSetWithWriter(w io.Writer, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	path := viper.ConfigFileUsed()
	if path == "" {
		path = config.DefaultFile()
	}

	previous := viper.Get(key)
	viper.Set(key, value)
	if err := config.Save(path); err != nil {
		viper.Set(key, previous)
		return errors.NewUserError(err, "Run 'evdefteri config list' to see current values")
	}

	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	return runConfigListWithWriter(cmd.OutOrStdout(), configFormat)
}

func runConfigListWithWriter(w io.Writer, format string) error {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "reading configuration")
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml", "":
		data, err = yaml.Marshal(&cfg)
	case "toml":
		data, err = toml.Marshal(&cfg)
	case "json":
		data, err = json.MarshalIndent(&cfg, "", "  ")
		data = append(data, '\n')
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format), "Use yaml, toml or json")
	}
	if err != nil {
		return errors.Wrapf(err, "marshaling config as %s", format)
	}

	_, err = w.Write(data)
	return errors.Wrap(err, "writing output")
}

func checkKey(key string) error {
	if config.IsKnownKey(key) {
		return nil
	}
	keys := config.Keys()
	slices.Sort(keys)
	return errors.NewUserError(
		errors.Newf("unknown config key %q", key),
		"Valid keys: "+strings.Join(keys, ", "),
	)
}
