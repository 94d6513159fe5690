package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/config"
	autumnerrors "github.com/tessro/autumn/internal/errors"
	"github.com/tessro/autumn/internal/wizard"
)

var configInitDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing autumn configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file. In a terminal a short form asks for
the common settings; use --defaults to skip it.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Keys are section.field as in the config file, for example:
  player.app             Scripted application (Spotify, Music)
  player.poll_interval   Seconds between now-playing polls
  dispatch.workers       Concurrent osascript processes
  weather.api_key        OpenWeatherMap API key
  weather.units          imperial or metric
  clock.timezone         IANA timezone for the clock
  tui.theme              auto, dark or light

Examples:
  autumn config set player.app Music
  autumn config set weather.units metric`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write defaults without prompting")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	shown := *cfg
	if shown.Weather.APIKey != "" {
		shown.Weather.APIKey = "********"
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(shown)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return printJSON(map[string]any{"path": path, "exists": exists})
	}
	fmt.Println(path)
	if !exists && Verbose() {
		fmt.Println(paint(dimStyle, "(does not exist yet; run 'autumn config init')"))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return errors.Newf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if !configInitDefaults && !JSONOutput() && wizard.CanInteract() {
		if err := wizard.RunSetup(newCfg); err != nil {
			return err
		}
		if err := newCfg.Validate(); err != nil {
			return err
		}
	}

	if err := writeConfig(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	if newCfg.Weather.APIKey == "" && !newCfg.Weather.Disabled {
		fmt.Println("\nNext steps:")
		fmt.Println("  Set weather.api_key or OPENWEATHER_API_KEY to show the weather")
	}
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := config.Path(); p != "" {
		return p
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	rawConfig := map[string]any{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return errors.Wrap(err, "failed to parse config")
		}
	case os.IsNotExist(err):
		// set creates the file
	default:
		return errors.Wrap(err, "failed to read config")
	}

	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" {
		return errors.New("invalid key format. Use 'section.field' (e.g., player.app)")
	}

	typedValue, err := typedConfigValue(section, field, value)
	if err != nil {
		return err
	}

	sectionMap, ok := rawConfig[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	// Validate the result before writing it.
	check := config.Default()
	if _, err := toml.Decode(encodeTOML(rawConfig), check); err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}
	if err := check.Validate(); err != nil {
		return autumnerrors.WithSuggestion(err, "Run 'autumn config show' to see current values")
	}

	if err := writeConfig(configPath, rawConfig); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// typedConfigValue converts value to the Go type of the named field.
func typedConfigValue(section, field, value string) (any, error) {
	kind, ok := config.FieldKind(section, field)
	if !ok {
		return nil, errors.Newf("unknown config key %s.%s", section, field)
	}

	switch kind {
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Newf("value must be an integer for %s.%s", section, field)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.Newf("value must be a number for %s.%s", section, field)
		}
		return f, nil
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Newf("value must be true or false for %s.%s", section, field)
		}
		return b, nil
	case "list":
		return strings.Fields(value), nil
	default:
		return value, nil
	}
}

func encodeTOML(v any) string {
	var b strings.Builder
	_ = toml.NewEncoder(&b).Encode(v)
	return b.String()
}

func writeConfig(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	// The file may hold an API key.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Autumn Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}
