package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read by the app.
const (
	EnvProjectID   = "FINLEARN_FIREBASE_PROJECT_ID"
	EnvLang        = "FINLEARN_LANG"
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

// LoadEnv loads .env files from each dir in order. Variables that are
// already set are never overridden, so earlier files win. Missing files are
// skipped.
func LoadEnv(dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv fills unset values of cfg from the environment.
func ApplyEnv(cfg *FileConfig) {
	fill := func(target **string, env string) {
		if *target != nil {
			return
		}
		if v := os.Getenv(env); v != "" {
			*target = &v
		}
	}
	fill(&cfg.App.Lang, EnvLang)
	fill(&cfg.Remote.ProjectID, EnvProjectID)
	fill(&cfg.Remote.CredentialsFile, EnvCredentials)
}
