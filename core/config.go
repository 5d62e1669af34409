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
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	AuthConfig struct {
		TokenKey  string
		Store     string // memory | file | redis
		TokenFile string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	AnalyticsConfig struct {
		PassMark        float64
		AttendanceAlert float64
	}

	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		WorkDir      string
		RollbarToken string

		API       APIConfig
		Auth      AuthConfig
		Redis     RedisConfig
		Server    ServerConfig
		Analytics AnalyticsConfig
	}
)

// NewConfig reads the configuration from the environment (prefixed with ENV)
// and from the optional config/.env.<env> file.
func NewConfig() *Config {
	conf := viper.New()
	workDir := Getwd()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("api.baseURL", "http://localhost:5000/api")
	conf.SetDefault("api.timeout", 30*time.Second)
	conf.SetDefault("auth.tokenKey", "token")
	conf.SetDefault("auth.store", "file")
	conf.SetDefault("auth.tokenFile", defaultTokenFile())
	conf.SetDefault("redis.addr", "localhost:6379")
	conf.SetDefault("redis.password", "")
	conf.SetDefault("redis.db", 0)
	conf.SetDefault("server.host", ":8080")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("analytics.passMark", 40.0)
	conf.SetDefault("analytics.attendanceAlert", 75.0)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		WorkDir:      workDir,
		RollbarToken: conf.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: conf.GetString("api.baseURL"),
			Timeout: conf.GetDuration("api.timeout"),
		},
		Auth: AuthConfig{
			TokenKey:  conf.GetString("auth.tokenKey"),
			Store:     strings.ToLower(conf.GetString("auth.store")),
			TokenFile: conf.GetString("auth.tokenFile"),
		},
		Redis: RedisConfig{
			Addr:     conf.GetString("redis.addr"),
			Password: conf.GetString("redis.password"),
			DB:       conf.GetInt("redis.db"),
		},
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
		},
		Analytics: AnalyticsConfig{
			PassMark:        conf.GetFloat64("analytics.passMark"),
			AttendanceAlert: conf.GetFloat64("analytics.attendanceAlert"),
		},
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shule", "session.json")
}
