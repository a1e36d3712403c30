package config

import (
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App     `yaml:"app"`
		HTTP    `yaml:"http"`
		Log     `yaml:"logger"`
		Storage `yaml:"storage"`
		Alarm   `yaml:"alarm"`
	}

	App struct {
		Env     string `yaml:"env"     env-default:"local"`
		Name    string `yaml:"name"    env-default:"healthbook"`
		Version string `yaml:"version" env-default:"dev" env:"APP_VERSION"`
	}

	HTTP struct {
		IP         string        `yaml:"ip"           env-default:"127.0.0.1"`
		Port       string        `yaml:"port"         env-default:"8090"`
		Timeout    time.Duration `yaml:"timeout"      env-default:"4s"`
		IdleTimout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		CORS       struct {
			AllowedMethods   []string `yaml:"allowed_methods"`
			AllowedOrigins   []string `yaml:"allowed_origins"`
			AllowCredentials bool     `yaml:"allow_credentials"`
			AllowedHeaders   []string `yaml:"allowed_headers"`
			ExposedHeaders   []string `yaml:"exposed_headers"`
			Debug            bool     `yaml:"debug"`
		} `yaml:"cors"`
	}

	Log struct {
		Level string `yaml:"log_level" env-default:"info" env:"LOG_LEVEL"`
	}

	Storage struct {
		Path       string        `yaml:"path"        env-default:"./data" env:"STORAGE_PATH"`
		SyncWrites bool          `yaml:"sync_writes" env-default:"true"`
		GCInterval time.Duration `yaml:"gc_interval" env-default:"5m"`
	}

	Alarm struct {
		SnoozeAfter     time.Duration `yaml:"snooze_after"      env-default:"30m"`
		AutoSnoozeAfter time.Duration `yaml:"auto_snooze_after" env-default:"5m"`
		AutoSnoozeGuard time.Duration `yaml:"auto_snooze_guard" env-default:"10m"`
	}
)

const (
	EnvConfigPathName  = "CONFIG-PATH"
	FlagConfigPathName = "config"
)

var (
	configPath string
	instance   *Config
	once       sync.Once
)

// GetConfig returns app configs.
func GetConfig() *Config {
	once.Do(func() {
		flag.StringVar(
			&configPath,
			FlagConfigPathName,
			"./configs/config.yml",
			"this is app config file",
		)
		flag.Parse()

		log.Print("config init")

		if configPath == "" {
			configPath = os.Getenv(EnvConfigPathName)
		}

		if configPath == "" {
			log.Fatal("config path is required")
		}

		instance = &Config{}

		if err := cleanenv.ReadConfig(configPath, instance); err != nil {
			helpText := "Healthbook - Personal Health Tracking Service"
			help, _ := cleanenv.GetDescription(instance, &helpText)
			log.Print(help)
			log.Fatal(err)
		}
	})
	return instance
}
