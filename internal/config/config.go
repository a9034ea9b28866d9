package config

import (
	"io/fs"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting of the certificate generator. Values come from
// the YAML file, then environment variables, then the env-default tags.
type Config struct {
	// Environment selects the logger flavour (development, production).
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	Certificate struct {
		// VerifierLabel is the name printed in the QR payload preamble.
		VerifierLabel string `env:"CERT_VERIFIER_LABEL" env-default:"nameSpace" yaml:"verifierLabel"`
		// Format is the default export format (pdf or png).
		Format string `env:"CERT_FORMAT" env-default:"pdf" yaml:"format"`
		// RawFilenames keeps event and registrant names verbatim in the
		// artifact file name instead of replacing characters illegal on disk.
		RawFilenames bool `env:"CERT_RAW_FILENAMES" env-default:"false" yaml:"rawFilenames"`
	} `yaml:"certificate"`

	Assets struct {
		// BaseDir resolves relative template paths.
		BaseDir string `env:"ASSETS_BASE_DIR" env-default:"." yaml:"baseDir"`
		// FetchTimeout bounds downloading a remote template image.
		FetchTimeout time.Duration `env:"ASSETS_FETCH_TIMEOUT" env-default:"10s" yaml:"fetchTimeout"`
		// MaxBytes caps the size of a template image.
		MaxBytes int64 `env:"ASSETS_MAX_BYTES" env-default:"20971520" yaml:"maxBytes"`
	} `yaml:"assets"`

	Store struct {
		// EventsFile is the YAML event catalog.
		EventsFile string `env:"STORE_EVENTS_FILE" env-default:"data/events.yml" yaml:"eventsFile"`
	} `yaml:"store"`

	Output struct {
		Dir string `env:"OUTPUT_DIR" env-default:"out" yaml:"dir"`
	} `yaml:"output"`
}

// Load reads the YAML file at configPath. A missing file is not an error: the
// configuration is then built from the environment and defaults only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) || configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "could not read env config")
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, errors.Wrap(err, "could not read config")
	}

	return &cfg, nil
}
