package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Analyzer     AnalyzerConfig     `mapstructure:"analyzer"`
	Source       SourceConfig       `mapstructure:"source"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Server       ServerConfig       `mapstructure:"server"`
	Report       ReportConfig       `mapstructure:"report"`
	Conversation ConversationConfig `mapstructure:"conversation"`
}

type AnalyzerConfig struct {
	Language string `mapstructure:"language" validate:"required,language"`
	// LemmaDictionary is an optional YAML file mapping word forms to lemmas.
	LemmaDictionary string   `mapstructure:"lemma_dictionary" validate:"omitempty,file"`
	ExtraStopWords  []string `mapstructure:"extra_stop_words"`
}

// SourceConfig describes the dream-book site interpretations are scraped from.
type SourceConfig struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	QueryParam      string        `mapstructure:"query_param" validate:"required"`
	HeadingTag      string        `mapstructure:"heading_tag" validate:"required"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestInterval time.Duration `mapstructure:"request_interval" validate:"gte=0"`
	RetryAttempts   uint          `mapstructure:"retry_attempts"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	// Path is the database file when Driver is sqlite.
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ServerConfig struct {
	Port        int        `mapstructure:"port" validate:"min=1,max=65535"`
	AccessToken string     `mapstructure:"access_token"`
	CORS        CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,url"`
}

type ReportConfig struct {
	MaxTerms  int `mapstructure:"max_terms" validate:"min=0"`
	MaxLength int `mapstructure:"max_length" validate:"min=1"`
}

type ConversationConfig struct {
	// IdleTimeout resets a conversation left waiting for input longer than this. Zero disables it.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sonnik")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("analyzer.language", "russian")
	v.SetDefault("analyzer.lemma_dictionary", "")
	v.SetDefault("source.base_url", "https://juicyworld.org/dream-interpretation-freud/")
	v.SetDefault("source.query_param", "s")
	v.SetDefault("source.heading_tag", "h4")
	v.SetDefault("source.user_agent", "Mozilla/5.0")
	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.request_interval", 2*time.Second)
	v.SetDefault("source.retry_attempts", 2)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "sonnik.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "sonnik")
	v.SetDefault("database.username", "user")
	v.SetDefault("server.port", 8080)
	v.SetDefault("report.max_terms", 5)
	v.SetDefault("report.max_length", 4000)
	v.SetDefault("conversation.idle_timeout", time.Duration(0))

	// Secrets come from environment variables only
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("server.access_token", "SONNIK_ACCESS_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind SONNIK_ACCESS_TOKEN environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		errorMsgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
