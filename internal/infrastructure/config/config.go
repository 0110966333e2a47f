package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server    ServerConfig    `koanf:"server"`
	Directory DirectoryConfig `koanf:"directory"`
	Providers ProvidersConfig `koanf:"providers"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `koanf:"requests_per_second"`
	BurstSize         int `koanf:"burst_size"`
}

// DirectoryConfig locates the local contact directory. Column names are
// configurable because exported address books disagree on headers.
type DirectoryConfig struct {
	Path          string `koanf:"path"`
	PhoneColumn   string `koanf:"phone_column"`
	NameColumn    string `koanf:"name_column"`
	DefaultRegion string `koanf:"default_region"`
}

// ProvidersConfig carries the credentials for every external identity
// provider. Credentials are read here once and handed to the adapters
// explicitly; nothing reads environment state after startup.
type ProvidersConfig struct {
	Timeout time.Duration `koanf:"timeout"`

	Twilio         TwilioConfig         `koanf:"twilio"`
	Numverify      NumverifyConfig      `koanf:"numverify"`
	Yelp           YelpConfig           `koanf:"yelp"`
	GooglePlaces   GooglePlacesConfig   `koanf:"google_places"`
	OpenCorporates OpenCorporatesConfig `koanf:"opencorporates"`
}

type TwilioConfig struct {
	AccountSID string `koanf:"account_sid"`
	AuthToken  string `koanf:"auth_token"`
}

type NumverifyConfig struct {
	APIKey string `koanf:"api_key"`
}

type YelpConfig struct {
	APIKey string `koanf:"api_key"`
}

type GooglePlacesConfig struct {
	APIKey string `koanf:"api_key"`
}

// OpenCorporatesConfig is the one provider whose key is optional:
// unauthenticated calls work but are rate-limited harder.
type OpenCorporatesConfig struct {
	APIKey  string `koanf:"api_key"`
	Enabled bool   `koanf:"enabled"`
}

type TelemetryConfig struct {
	Enabled       bool          `koanf:"enabled"`
	OTLPEndpoint  string        `koanf:"otlp_endpoint"`
	SamplingRate  float64       `koanf:"sampling_rate"`
	ExportTimeout time.Duration `koanf:"export_timeout"`
	BatchTimeout  time.Duration `koanf:"batch_timeout"`
}

// Load builds the configuration from defaults, an optional YAML file and
// CID_-prefixed environment variables, in that precedence order. An empty
// path falls back to configs/config.yaml, which is allowed to be absent.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 10,
				BurstSize:         20,
			},
		},
		Directory: DirectoryConfig{
			Path:          "sample_contacts.csv",
			PhoneColumn:   "phone",
			NameColumn:    "name",
			DefaultRegion: "US",
		},
		Providers: ProvidersConfig{
			Timeout: 8 * time.Second,
			OpenCorporates: OpenCorporatesConfig{
				Enabled: true,
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			OTLPEndpoint:  "localhost:4317",
			SamplingRate:  1.0,
			ExportTimeout: 30 * time.Second,
			BatchTimeout:  5 * time.Second,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Config file is optional unless a path was given explicitly.
	explicit := path != ""
	if path == "" {
		path = "configs/config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	// Override with environment variables. Double underscore separates
	// nesting levels so single underscores survive inside key names:
	// CID_PROVIDERS__TWILIO__ACCOUNT_SID → providers.twilio.account_sid.
	if err := k.Load(env.Provider("CID_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "CID_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
