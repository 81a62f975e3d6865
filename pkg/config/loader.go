package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	tberrors "github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
)

// EnvPrefix prefixes every environment variable read as configuration.
// Nested keys use a double underscore: WSLTOOLBAR_THEME__PREFERRED.
const EnvPrefix = "WSLTOOLBAR_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadOptions selects the optional configuration sources
type LoadOptions struct {
	// ConfigFile is an explicit user config file; empty means search the XDG config dir
	ConfigFile string
	// EnvFile is an optional dotenv file with WSLTOOLBAR_ variables
	EnvFile string
	// Overrides holds values from command-line flags, keyed by config key
	Overrides map[string]interface{}
}

// GetDefaultsContent returns the embedded defaults file, used by `config --defaults`
func GetDefaultsContent() string {
	return string(defaultConfig)
}

// LoadConfiguration merges every configuration layer and returns a validated Config
func LoadConfiguration(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, tberrors.Wrap(err, tberrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User file
	userFile, err := findUserFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if userFile != "" {
		if err := k.Load(file.Provider(userFile), parserFor(userFile)); err != nil {
			return nil, tberrors.Wrapf(err, tberrors.ErrConfigLoad, "failed to load config from %s", userFile)
		}
	}

	// 3. Dotenv file
	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, tberrors.Wrapf(err, tberrors.ErrConfigLoad, "failed to read env file %s", opts.EnvFile)
		}
		if err := k.Load(confmap.Provider(envMapToKeys(values), "."), nil); err != nil {
			return nil, tberrors.Wrap(err, tberrors.ErrConfigLoad, "failed to load env file values")
		}
	}

	// 4. Process environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, tberrors.Wrap(err, tberrors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, tberrors.Wrap(err, tberrors.ErrConfigLoad, "failed to load flag overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, tberrors.Wrap(err, tberrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findUserFile returns the explicit file (which must exist) or the first existing candidate
func findUserFile(explicit string) (string, error) {
	if explicit != "" {
		explicit = paths.ExpandHome(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return "", tberrors.Wrapf(err, tberrors.ErrConfigLoad, "config file %s not found", explicit)
		}
		return explicit, nil
	}
	for _, candidate := range paths.ConfigFileCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps WSLTOOLBAR_THEME__ICON_SIZE to theme.icon_size
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envMapToKeys converts dotenv values into a nested config map, ignoring foreign variables
func envMapToKeys(values map[string]string) map[string]interface{} {
	out := make(map[string]interface{})
	for name, value := range values {
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		out[envKey(name)] = value
	}
	return out
}

// String renders the effective configuration for debug output
func (c *Config) String() string {
	return fmt.Sprintf("target=%s distro=%s user=%s menu=%s install=%s metadata=%s theme=%s%v persister=%s concurrency=%d",
		c.TargetName, c.Distribution, c.User, c.MenuFile, c.InstallDirectory, c.MetadataDirectory,
		c.Theme.Preferred, c.Theme.Fallbacks, c.Persister, c.Concurrency)
}
