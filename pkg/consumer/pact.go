package consumer

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Pact is one construction session for a contract between a consumer and a provider.
// It owns the pact handle and every interaction handle allocated under it, and is not safe
// for concurrent use.
type Pact struct {
	engine   Engine
	config   *Config
	handle   PactHandle
	consumer string
	provider string
}

func NewPact(engine Engine, consumer, provider string, config *Config) (*Pact, error) {
	if engine == nil {
		return nil, ErrMissingEngine
	}
	if config == nil {
		return nil, ErrMissingConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if consumer == "" || provider == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "consumer and provider names are required")
	}

	handle, err := engine.NewPact(consumer, provider)
	if err != nil {
		return nil, err
	}
	if err := engine.WithSpecification(handle, config.Specification); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"consumer": consumer,
		"provider": provider,
		"pact":     handle,
	}).Info("pact created")

	return &Pact{
		engine:   engine,
		config:   config,
		handle:   handle,
		consumer: consumer,
		provider: provider,
	}, nil
}

func (p *Pact) Handle() PactHandle {
	return p.handle
}

// WithPactMetadata adds a namespaced entry to the metadata of the whole pact.
func (p *Pact) WithPactMetadata(namespace, name, value string) error {
	if namespace == "" || name == "" {
		return errors.Wrap(ErrInvalidArgument, "metadata namespace and name are required")
	}
	return p.engine.WithPactMetadata(p.handle, namespace, name, value)
}

// UponReceiving starts a new HTTP interaction.
func (p *Pact) UponReceiving(description string) (*RequestBuilder, error) {
	if description == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "interaction description is required")
	}
	handle, err := p.engine.NewInteraction(p.handle, description)
	if err != nil {
		return nil, err
	}
	if err := p.engine.WithDescription(handle, description); err != nil {
		return nil, err
	}
	return NewRequestBuilder(p.engine, handle, p.config.JSON)
}

// ExpectsToReceive starts a new message interaction.
func (p *Pact) ExpectsToReceive(description string) (*MessageBuilder, error) {
	if description == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "message description is required")
	}
	handle, err := p.engine.NewMessage(p.handle, description)
	if err != nil {
		return nil, err
	}
	if err := p.engine.WithDescription(handle, description); err != nil {
		return nil, err
	}
	return NewMessageBuilder(p.engine, p.handle, handle, description, p.config)
}

// WritePactFile writes the pact to the configured directory, replacing any existing file.
func (p *Pact) WritePactFile() error {
	log.Infof("writing pact between '%s' and '%s' to %s", p.consumer, p.provider, p.config.PactDir)
	return p.engine.WritePactFile(p.handle, p.config.PactDir, true)
}
