package consumer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	PactDir       string        `env:"PACT_DIR,default=./pacts"`
	Specification Specification `env:"PACT_SPECIFICATION,default=V3"`
	// JSON holds the default serialization settings for bodies and message contents.
	JSON *JSONSettings
}

func DefaultConfig() *Config {
	return &Config{
		PactDir:       "./pacts",
		Specification: SpecificationV3,
		JSON:          DefaultJSONSettings(),
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	var config Config
	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, errors.Wrap(err, "process env config")
	}
	if config.JSON == nil {
		config.JSON = DefaultJSONSettings()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.PactDir == "" {
		return errors.Wrap(ErrInvalidArgument, "pact directory must not be empty")
	}
	if _, err := c.Specification.Version(); err != nil {
		return err
	}
	if c.JSON == nil {
		return errors.Wrap(ErrMissingConfig, "json settings are required")
	}
	return nil
}
