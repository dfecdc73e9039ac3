package config

import (
	"bytes"
	"errors"
	"os"
	"time"

	"github.com/docmark/docmark/pkg/converter"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	UploadDir   string
	ImageDir    string
	ImagePrefix string

	MaxFileSize    int64
	ConvertTimeout time.Duration
	MaxConcurrent  int64

	CORSOrigins []string

	Limiter *rate.Limiter

	Converter converter.Provider
}

// Parse loads the YAML config file, expanding environment variables in place.
// An empty path yields a default config with the converter taken from the
// CONVERTER_URL environment.
func Parse(path string) (*Config, error) {
	file := &configFile{}

	if path != "" {
		parsed, err := parseFile(path)

		if err != nil {
			return nil, err
		}

		file = parsed
	}

	c := &Config{
		Address: ":8001",

		UploadDir:   "public/uploads",
		ImageDir:    "public/uploads/images",
		ImagePrefix: "/uploads/images",

		MaxFileSize:    100 * 1024 * 1024,
		ConvertTimeout: 2 * time.Minute,
		MaxConcurrent:  4,
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if addr := os.Getenv("ADDRESS"); addr != "" {
		c.Address = addr
	}

	if file.UploadDir != "" {
		c.UploadDir = file.UploadDir
	}

	if file.ImageDir != "" {
		c.ImageDir = file.ImageDir
	}

	if file.ImagePrefix != "" {
		c.ImagePrefix = file.ImagePrefix
	}

	if file.MaxFileSize > 0 {
		c.MaxFileSize = file.MaxFileSize
	}

	if file.ConvertTimeout > 0 {
		c.ConvertTimeout = time.Duration(file.ConvertTimeout) * time.Second
	}

	if file.MaxConcurrent > 0 {
		c.MaxConcurrent = file.MaxConcurrent
	}

	c.CORSOrigins = file.CORSOrigins

	c.Limiter = createLimiter(file.Limit)

	if err := c.registerConverter(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	UploadDir   string `yaml:"upload_dir"`
	ImageDir    string `yaml:"image_dir"`
	ImagePrefix string `yaml:"image_prefix"`

	MaxFileSize int64 `yaml:"max_file_size"`

	// ConvertTimeout is in seconds
	ConvertTimeout int   `yaml:"convert_timeout"`
	MaxConcurrent  int64 `yaml:"max_concurrent"`

	CORSOrigins []string `yaml:"cors_origins"`

	Limit *int `yaml:"limit"`

	Converter converterConfig `yaml:"converter"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}

var errNoConverter = errors.New("no converter configured")
