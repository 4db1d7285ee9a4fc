package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	StorageConfig struct {
		Engine string // memory | file | badger | sqlite | postgres | redis
		Path   string // data directory of the local engines
		DSN    string // postgres connection string
		Key    string // snapshot key
		Redis  RedisConfig
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	FeedbackConfig struct {
		APIKey  string
		Model   string
		BaseURL string
		Timeout time.Duration
	}

	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string
		Storage      StorageConfig
		Feedback     FeedbackConfig
	}
)

// NewConfig reads the configuration from defaults, an optional config/.env.<env> file and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Registro")
	conf.SetDefault("build", "develop")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("storage.engine", "file")
	conf.SetDefault("storage.path", defaultDataDir())
	conf.SetDefault("storage.dsn", "")
	conf.SetDefault("storage.key", "registro_docente_data")
	conf.SetDefault("storage.redis.addr", "localhost:6379")
	conf.SetDefault("storage.redis.password", "")
	conf.SetDefault("storage.redis.db", 0)
	conf.SetDefault("feedback.model", "gemini-3-flash-preview")
	conf.SetDefault("feedback.baseURL", "https://generativelanguage.googleapis.com")
	conf.SetDefault("feedback.timeout", 20*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	conf.SetDefault("feedback.apiKey", os.Getenv("API_KEY")) // used when <ENV>_FEEDBACK_APIKEY is unset
	conf.AutomaticEnv()

	return &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		RollbarToken: conf.GetString("rollbarToken"),
		Storage: StorageConfig{
			Engine: strings.ToLower(conf.GetString("storage.engine")),
			Path:   conf.GetString("storage.path"),
			DSN:    conf.GetString("storage.dsn"),
			Key:    conf.GetString("storage.key"),
			Redis: RedisConfig{
				Addr:     conf.GetString("storage.redis.addr"),
				Password: conf.GetString("storage.redis.password"),
				DB:       conf.GetInt("storage.redis.db"),
			},
		},
		Feedback: FeedbackConfig{
			APIKey:  conf.GetString("feedback.apiKey"),
			Model:   conf.GetString("feedback.model"),
			BaseURL: conf.GetString("feedback.baseURL"),
			Timeout: conf.GetDuration("feedback.timeout"),
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "registro")
	}
	return ".registro"
}
