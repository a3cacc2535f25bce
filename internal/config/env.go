package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"github.com/jhlabs/unfold/docsite/internal/logfields"
)

// envFiles are read from the config directory. Earlier files take
// precedence; variables already in the process environment always win.
var envFiles = []string{".env.local", ".env"}

// fileEnv tracks the variables set from .env files and the value each was
// set to, so a reload can replace them without clobbering variables that
// came from the real environment.
var fileEnv = struct {
	sync.Mutex
	applied map[string]string
}{applied: map[string]string{}}

// loadEnvFiles applies the .env files that exist next to the config file
// and returns the ones it read. Calling it again picks up edits: variables
// it set earlier are updated or removed, anything else already in the
// environment is left alone.
func loadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	merged := map[string]string{}
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		vars, err := godotenv.Read(p)
		if err != nil {
			return loaded, err
		}
		for k, v := range vars {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		slog.Debug("Loaded environment file", logfields.Path(p))
		loaded = append(loaded, p)
	}

	fileEnv.Lock()
	defer fileEnv.Unlock()
	for k, v := range merged {
		if !ownsEnv(k) {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return loaded, err
		}
		fileEnv.applied[k] = v
	}
	for k := range fileEnv.applied {
		if _, ok := merged[k]; ok {
			continue
		}
		if ownsEnv(k) {
			_ = os.Unsetenv(k)
		}
		delete(fileEnv.applied, k)
	}
	return loaded, nil
}

// ownsEnv reports whether k may be set from a file: it is unset, or still
// holds the value a file gave it. Callers hold fileEnv.
func ownsEnv(k string) bool {
	cur, ok := os.LookupEnv(k)
	if !ok {
		return true
	}
	prev, managed := fileEnv.applied[k]
	return managed && prev == cur
}
