package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sirene SireneConfig `yaml:"sirene" mapstructure:"sirene"`
	BAN    BANConfig    `yaml:"ban" mapstructure:"ban"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SireneConfig holds SIRENE API credentials and endpoint settings.
// APIKey is required for any command that resolves a SIRET.
type SireneConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// BANConfig holds Base Adresse Nationale geocoder settings. RateLimit
// is in requests per second, matching the public endpoint's cap.
type BANConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   int    `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// DataConfig points at the local reference datasets.
type DataConfig struct {
	QPVPath string `yaml:"qpv_path" mapstructure:"qpv_path"`
	ZRRPath string `yaml:"zrr_path" mapstructure:"zrr_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the configuration for the given run mode. Every
// mode that resolves a SIRET requires the SIRENE API key; "serve"
// additionally requires a usable listen port.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "check", "serve":
		if c.Sirene.APIKey == "" {
			missing = append(missing, "sirene.api_key is required (https://portail-api.insee.fr)")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Data.QPVPath == "" {
		missing = append(missing, "data.qpv_path is required")
	}
	if c.Data.ZRRPath == "" {
		missing = append(missing, "data.zrr_path is required")
	}
	if c.Sirene.TimeoutSecs <= 0 {
		missing = append(missing, "sirene.timeout_secs must be > 0")
	}
	if c.BAN.TimeoutSecs <= 0 {
		missing = append(missing, "ban.timeout_secs must be > 0")
	}
	if c.BAN.RateLimit < 1 {
		missing = append(missing, "ban.rate_limit must be >= 1")
	}
	if mode == "serve" && c.Server.Port <= 0 {
		missing = append(missing, "server.port must be > 0")
	}

	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ZONAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sirene.base_url", "https://api.insee.fr/api-sirene/3.11")
	v.SetDefault("sirene.timeout_secs", 10)
	v.SetDefault("ban.base_url", "https://api-adresse.data.gouv.fr/search/")
	v.SetDefault("ban.timeout_secs", 10)
	v.SetDefault("ban.rate_limit", 50)
	v.SetDefault("data.qpv_path", "QP2024_France_Hexagonale_Outre_Mer_WGS84.shp")
	v.SetDefault("data.zrr_path", "ZRR_list_source.csv")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
