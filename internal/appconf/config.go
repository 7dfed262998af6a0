// Package appconf holds the server configuration. Values come from an
// optional YAML file, then the environment, then command-line flags, each
// layer overriding the one before.
package appconf

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"transitcatalogue.dev/internal/router"
	"transitcatalogue.dev/internal/transit"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

var environmentNames = map[Environment]string{
	Development: "development",
	Test:        "test",
	Production:  "production",
}

// EnvFlagToEnvironment maps a flag value to an Environment. Unknown values
// fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	if name, ok := environmentNames[e]; ok {
		return name
	}
	return "unknown"
}

func (e *Environment) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	for env, envName := range environmentNames {
		if envName == strings.ToLower(name) {
			*e = env
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown environment %q", value.Line, name)
}

type RoutingConfig struct {
	BusWaitTime float64 `yaml:"bus_wait_time" validate:"gte=0"`
	BusVelocity float64 `yaml:"bus_velocity" validate:"omitempty,gt=0"`
}

// CompressionConfig tunes gzip for API responses. Bodies shorter than
// MinSize bytes are sent as is.
type CompressionConfig struct {
	Level   int `yaml:"level" validate:"gte=1,lte=9"`
	MinSize int `yaml:"min_size" validate:"gte=0"`
}

type Config struct {
	Port               int               `yaml:"port" validate:"gt=0,lte=65535"`
	Env                Environment       `yaml:"env" validate:"gte=0,lte=2"`
	ApiKeys            []string          `yaml:"api_keys" validate:"dive,required"`
	RateLimit          int               `yaml:"rate_limit" validate:"gte=0"`
	Source             string            `yaml:"source" validate:"required"`
	DownloadTimeout    time.Duration     `yaml:"download_timeout" validate:"gte=0"`
	RoutingSettings    RoutingConfig     `yaml:"routing_settings"`
	RenderSettingsPath string            `yaml:"render_settings_path"`
	LogLevel           string            `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Verbose            bool              `yaml:"verbose"`
	Compression        CompressionConfig `yaml:"compression"`
	AllowedOrigins     []string          `yaml:"allowed_origins" validate:"dive,required"`
}

// Default returns the configuration used when nothing overrides it. Source
// is left empty and must be supplied.
func Default() Config {
	return Config{
		Port:      4000,
		Env:       Development,
		ApiKeys:   []string{"test"},
		RateLimit: 100,
		LogLevel:  "info",
		Compression: CompressionConfig{
			Level:   6,
			MinSize: 1024,
		},
		AllowedOrigins: []string{"*"},
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads a YAML file over the defaults. The result is not validated so
// later layers can still fill in required values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if cfg.Port == 0 {
		cfg.Port = Default().Port
	}
	return cfg, nil
}

// LoadEnvFiles loads base into the process environment without overriding
// variables that are already set, then lets local override everything.
// Missing files are ignored.
func LoadEnvFiles(base, local string) error {
	if err := godotenv.Load(base); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", base, err)
	}
	if err := godotenv.Overload(local); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", local, err)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvPort         = "CATALOGUE_PORT"
	EnvEnvironment  = "CATALOGUE_ENV"
	EnvAPIKeys      = "CATALOGUE_API_KEYS"
	EnvRateLimit    = "CATALOGUE_RATE_LIMIT"
	EnvSource       = "CATALOGUE_SOURCE"
	EnvRenderConfig = "CATALOGUE_RENDER_SETTINGS"
	EnvLogLevel     = "CATALOGUE_LOG_LEVEL"
	EnvOrigins      = "CATALOGUE_ALLOWED_ORIGINS"
)

// ApplyEnv overrides fields with the variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v, ok := lookup(EnvRateLimit); ok {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		c.RateLimit = limit
	}
	if v, ok := lookup(EnvEnvironment); ok {
		c.Env = EnvFlagToEnvironment(v)
	}
	if v, ok := lookup(EnvAPIKeys); ok {
		c.ApiKeys = splitKeys(v)
	}
	if v, ok := lookup(EnvSource); ok {
		c.Source = v
	}
	if v, ok := lookup(EnvRenderConfig); ok {
		c.RenderSettingsPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvOrigins); ok {
		c.AllowedOrigins = splitKeys(v)
	}
	return nil
}

// FromArgs builds the configuration for the API server: defaults, the file
// named by -config, lookup, then any flag set explicitly in args.
func FromArgs(args []string, lookup func(string) (string, bool)) (Config, error) {
	fset := flag.NewFlagSet("api", flag.ContinueOnError)

	var (
		configPath string
		apiKeys    string
		origins    string
		env        string
		flagCfg    Config
	)
	fset.StringVar(&configPath, "config", "", "Path to a YAML config file")
	fset.IntVar(&flagCfg.Port, "port", 4000, "API server port")
	fset.StringVar(&env, "env", "development", "Environment (development|test|production)")
	fset.StringVar(&apiKeys, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	fset.IntVar(&flagCfg.RateLimit, "rate-limit", 100, "Requests per second allowed per API key")
	fset.StringVar(&flagCfg.Source, "source", "", "Network JSON document or GTFS static zip (path or URL)")
	fset.Float64Var(&flagCfg.RoutingSettings.BusWaitTime, "bus-wait-time", 0, "Minutes spent waiting at a stop")
	fset.Float64Var(&flagCfg.RoutingSettings.BusVelocity, "bus-velocity", 0, "Bus velocity in km/h")
	fset.StringVar(&flagCfg.RenderSettingsPath, "render-settings", "", "Path to a JSON file with map render settings")
	fset.StringVar(&flagCfg.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fset.BoolVar(&flagCfg.Verbose, "verbose", false, "Log network statistics after loading")
	fset.IntVar(&flagCfg.Compression.Level, "gzip-level", 6, "Gzip compression level (1-9)")
	fset.IntVar(&flagCfg.Compression.MinSize, "gzip-min-size", 1024, "Smallest response body in bytes that is compressed")
	fset.StringVar(&origins, "allowed-origins", "*", "Comma separated CORS origins, * for any")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if configPath != "" {
		loaded, err := Load(configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = flagCfg.Port
		case "env":
			cfg.Env = EnvFlagToEnvironment(env)
		case "api-keys":
			cfg.ApiKeys = splitKeys(apiKeys)
		case "rate-limit":
			cfg.RateLimit = flagCfg.RateLimit
		case "source":
			cfg.Source = flagCfg.Source
		case "bus-wait-time":
			cfg.RoutingSettings.BusWaitTime = flagCfg.RoutingSettings.BusWaitTime
		case "bus-velocity":
			cfg.RoutingSettings.BusVelocity = flagCfg.RoutingSettings.BusVelocity
		case "render-settings":
			cfg.RenderSettingsPath = flagCfg.RenderSettingsPath
		case "log-level":
			cfg.LogLevel = flagCfg.LogLevel
		case "verbose":
			cfg.Verbose = flagCfg.Verbose
		case "gzip-level":
			cfg.Compression.Level = flagCfg.Compression.Level
		case "gzip-min-size":
			cfg.Compression.MinSize = flagCfg.Compression.MinSize
		case "allowed-origins":
			cfg.AllowedOrigins = splitKeys(origins)
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, key := range strings.Split(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// TransitConfig returns the settings the transit manager is loaded with.
func (c Config) TransitConfig() transit.Config {
	return transit.Config{
		Source: c.Source,
		RoutingSettings: router.Settings{
			BusWaitTime: c.RoutingSettings.BusWaitTime,
			BusVelocity: c.RoutingSettings.BusVelocity,
		},
		DownloadTimeout: c.DownloadTimeout,
		Verbose:         c.Verbose,
	}
}
