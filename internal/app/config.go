package app

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brightboard/brightboard-backend/internal/pkg/envutil"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type Config struct {
	Environment  string   `yaml:"environment"`
	Version      string   `yaml:"version"`
	ListenAddr   string   `yaml:"listen_addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// LoadConfig reads the optional CONFIG_PATH yaml file first, then lets
// environment variables override it.
func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Environment: "development",
		Version:     "dev",
		ListenAddr:  ":8080",
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("config file unreadable, using env/defaults", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Warn("config file invalid yaml, using env/defaults", "path", path, "error", err)
		} else {
			log.Info("config file loaded", "path", path)
		}
	}

	cfg.Environment = envutil.GetEnv("APP_ENV", cfg.Environment, log)
	cfg.Version = envutil.GetEnv("APP_VERSION", cfg.Version, log)
	cfg.ListenAddr = envutil.GetEnv("LISTEN_ADDR", cfg.ListenAddr, log)
	cfg.AllowOrigins = envutil.GetEnvAsSlice("CORS_ALLOW_ORIGINS", cfg.AllowOrigins, log)

	return cfg
}
