package configuration

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	AdminPort int    `env:"ADMIN_PORT,default=8080"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
}

func NewFromEnv() (Config, error) {
	return NewFromLookuper(envconfig.OsLookuper())
}

func NewFromLookuper(l envconfig.Lookuper) (Config, error) {
	var config Config
	if err := envconfig.ProcessWith(context.Background(), &config, l); err != nil {
		return config, errors.Wrap(err, "process env config")
	}
	return config, nil
}

// ConfigureLogging applies the configured level to the standard logger.
func (c Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level '%s'", c.LogLevel)
	}
	log.SetLevel(level)
	return nil
}
