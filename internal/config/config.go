package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	RawDataDir string
	ExportDir  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "contratos.db")),
		RawDataDir: getEnv("RAW_DATA_DIR", filepath.Join(cwd, "data", "raw")),
		ExportDir:  getEnv("EXPORT_DIR", filepath.Join(cwd, "data", "export")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
