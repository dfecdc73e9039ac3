package config

import (
	"errors"
	"os"

	"github.com/docmark/docmark/pkg/converter/docling"
)

type converterConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

func (c *Config) registerConverter(f *configFile) error {
	config := f.Converter

	if config.URL == "" {
		config.URL = os.Getenv("CONVERTER_URL")
	}

	if config.Token == "" {
		config.Token = os.Getenv("CONVERTER_TOKEN")
	}

	if config.URL == "" {
		return errNoConverter
	}

	switch config.Type {
	case "", "docling":
		client, err := docling.New(config.URL, docling.WithToken(config.Token))

		if err != nil {
			return err
		}

		c.Converter = client

		return nil

	default:
		return errors.New("unknown converter type: " + config.Type)
	}
}
