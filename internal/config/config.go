package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Whisper  WhisperConfig
	Pipeline PipelineConfig
	JWT      JWTConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	AllowOrigins string
}

type DBConfig struct {
	// Driver is "oracle" (go-ora) or "godror".
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LLMConfig struct {
	// Provider is one of "gemini", "openai" or "ollama".
	Provider    string
	APIKey      string
	Model       string
	ServerURL   string
	Temperature float64
	Timeout     time.Duration
}

type WhisperConfig struct {
	// Backend is "openai" (OpenAI-compatible HTTP endpoint) or "cli" (local whisper binary).
	Backend        string
	Model          string
	BaseURL        string
	APIKey         string
	Binary         string
	MaxConcurrency int
}

type PipelineConfig struct {
	YTDLPPath      string
	AcquireTimeout time.Duration
	WorkDirPrefix  string
}

type JWTConfig struct {
	SecretKey string
}

type LoggerConfig struct {
	Env   string
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20*time.Minute)
	v.SetDefault("server.write_timeout", 20*time.Minute)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.allow_origins", "*")

	v.SetDefault("db.driver", "oracle")
	v.SetDefault("db.port", 1521)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.timeout", 2*time.Minute)

	v.SetDefault("whisper.backend", "openai")
	v.SetDefault("whisper.model", "base")
	v.SetDefault("whisper.base_url", "http://localhost:8000/v1")
	v.SetDefault("whisper.binary", "whisper")
	v.SetDefault("whisper.max_concurrency", 0)

	v.SetDefault("pipeline.ytdlp_path", "yt-dlp")
	v.SetDefault("pipeline.acquire_timeout", 10*time.Minute)
	v.SetDefault("pipeline.workdir_prefix", "quiz-tube-")

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml and APP_-prefixed environment variables.
// A missing config file is not an error; defaults and the environment apply.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
			AllowOrigins: v.GetString("server.allow_origins"),
		},
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			ServerURL:   v.GetString("llm.server_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Whisper: WhisperConfig{
			Backend:        strings.ToLower(v.GetString("whisper.backend")),
			Model:          v.GetString("whisper.model"),
			BaseURL:        v.GetString("whisper.base_url"),
			APIKey:         v.GetString("whisper.api_key"),
			Binary:         v.GetString("whisper.binary"),
			MaxConcurrency: v.GetInt("whisper.max_concurrency"),
		},
		Pipeline: PipelineConfig{
			YTDLPPath:      v.GetString("pipeline.ytdlp_path"),
			AcquireTimeout: v.GetDuration("pipeline.acquire_timeout"),
			WorkDirPrefix:  v.GetString("pipeline.workdir_prefix"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
	}

	// GEMINI_API_KEY is the conventional variable for the default provider.
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "gemini" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}

func (c *Config) GetDSN() string {
	switch c.DB.Driver {
	case "godror":
		// godror connect string: user="..." password="..." connectString="host:port/service"
		return fmt.Sprintf(`user=%q password=%q connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	default:
		return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
	}
}
