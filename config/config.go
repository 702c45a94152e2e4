package config

import (
	"time"
	_ "time/tzdata"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	ServerBodyLimitKB    int    `mapstructure:"SERVER_BODY_LIMIT_KB"`
	ServerTimeoutSeconds int    `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`

	// Mission and gamification rules
	AppTimezone        string `mapstructure:"APP_TIMEZONE"`
	MissionsPerDay     int    `mapstructure:"MISSIONS_PER_DAY"`
	RotationWindowDays int    `mapstructure:"ROTATION_WINDOW_DAYS"`
	MaxSkipsPerDay     int    `mapstructure:"MAX_SKIPS_PER_DAY"`
	MaxReloadsPerDay   int    `mapstructure:"MAX_RELOADS_PER_DAY"`
	NotificationHour   int    `mapstructure:"NOTIFICATION_HOUR"`

	SchedulerEnabled   bool `mapstructure:"SCHEDULER_ENABLED"`
	RateLimitPerMinute int  `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "SERVER_BODY_LIMIT_KB", "SERVER_TIMEOUT_SECONDS", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS", "JWT_SECRET",
	"APP_TIMEZONE", "MISSIONS_PER_DAY", "ROTATION_WINDOW_DAYS", "MAX_SKIPS_PER_DAY", "MAX_RELOADS_PER_DAY",
	"NOTIFICATION_HOUR", "SCHEDULER_ENABLED", "RATE_LIMIT_PER_MINUTE",
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "production")
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("SERVER_BODY_LIMIT_KB", 1024)
	viper.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	viper.SetDefault("APP_TIMEZONE", "Europe/Paris")
	viper.SetDefault("MISSIONS_PER_DAY", 3)
	viper.SetDefault("ROTATION_WINDOW_DAYS", 7)
	viper.SetDefault("MAX_SKIPS_PER_DAY", 2)
	viper.SetDefault("MAX_RELOADS_PER_DAY", 3)
	viper.SetDefault("NOTIFICATION_HOUR", 10)
	viper.SetDefault("SCHEDULER_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()
	setDefaults()

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"timezone", config.AppTimezone,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// Location resolves the regional timezone every day boundary is computed in.
func (c Config) Location() (*time.Location, error) {
	name := c.AppTimezone
	if name == "" {
		name = "Europe/Paris"
	}
	return time.LoadLocation(name)
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	if _, err := config.Location(); err != nil {
		return log.Err("Fatal error: invalid APP_TIMEZONE", err, "timezone", config.AppTimezone)
	}

	if config.MissionsPerDay < 1 {
		return log.Error("Fatal error: MISSIONS_PER_DAY must be at least 1", "value", config.MissionsPerDay)
	}

	if config.NotificationHour < 0 || config.NotificationHour > 23 {
		return log.Error(
			"Fatal error: NOTIFICATION_HOUR must be between 0 and 23",
			"value", config.NotificationHour,
		)
	}

	ConfigInstance = config
	return nil
}
