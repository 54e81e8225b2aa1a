package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvEmail        = "LINKEDIN_EMAIL"
	EnvPassword     = "LINKEDIN_PASSWORD"
	EnvResumePath   = "RESUME_PATH"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvModel        = "OPENAI_MODEL"
	EnvMaxApplies   = "MAX_APPLIES"
	EnvCSVPath      = "CSV_PATH"
	EnvModalTimeout = "MODAL_TIMEOUT"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set are not overridden.
// Missing files are ignored; with no arguments ".env" is tried.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv copies the environment onto c using lookup.
// Pass os.LookupEnv in production; tests pass a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvEmail, &c.Email)
	str(EnvPassword, &c.Password)
	str(EnvResumePath, &c.ResumePath)
	str(EnvOpenAIKey, &c.OpenAIKey)
	str(EnvModel, &c.Model)
	str(EnvCSVPath, &c.CSVPath)

	if v, ok := lookup(EnvMaxApplies); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvMaxApplies, v)
		}
		c.MaxApplies = n
	}

	if v, ok := lookup(EnvModalTimeout); ok && v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvModalTimeout, v)
		}
		c.ModalTimeout = d
	}
	return nil
}

// parseSeconds accepts a plain number of seconds ("300") or a Go duration ("5m").
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
