package consumer

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MessageBuilder describes an asynchronous message the consumer expects to receive.
type MessageBuilder struct {
	engine      Engine
	pact        PactHandle
	handle      InteractionHandle
	description string
	config      *Config
}

func NewMessageBuilder(engine Engine, pact PactHandle, handle InteractionHandle, description string, config *Config) (*MessageBuilder, error) {
	if engine == nil {
		return nil, ErrMissingEngine
	}
	if config == nil || config.JSON == nil {
		return nil, ErrMissingConfig
	}
	return &MessageBuilder{
		engine:      engine,
		pact:        pact,
		handle:      handle,
		description: description,
		config:      config,
	}, nil
}

func (b *MessageBuilder) Given(state string) error {
	return given(b.engine, b.handle, state, nil)
}

func (b *MessageBuilder) GivenWithParams(state string, params map[string]string) error {
	return given(b.engine, b.handle, state, params)
}

func (b *MessageBuilder) WithMetadata(key, value string) error {
	if key == "" {
		return errors.Wrap(ErrInvalidArgument, "metadata key is required")
	}
	return b.engine.WithMessageMetadata(b.handle, key, value)
}

// WithJSONContent sets the message contents, serialized with the configured settings. The
// same settings bind the reified contents during verification.
func (b *MessageBuilder) WithJSONContent(content interface{}) (*ConfiguredMessage, error) {
	return b.WithJSONContentUsing(content, b.config.JSON)
}

// WithJSONContentUsing is WithJSONContent with settings replacing the configured ones for
// this message.
func (b *MessageBuilder) WithJSONContentUsing(content interface{}, settings *JSONSettings) (*ConfiguredMessage, error) {
	contents, err := marshalContent(content, settings)
	if err != nil {
		return nil, err
	}
	return b.withContents(mediaTypeJSON, contents, settings)
}

// WithContent sets already serialized contents. The last content set on a message wins.
func (b *MessageBuilder) WithContent(contentType, contents string) (*ConfiguredMessage, error) {
	if contentType == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "content type is required")
	}
	return b.withContents(contentType, contents, b.config.JSON)
}

func (b *MessageBuilder) withContents(contentType, contents string, settings *JSONSettings) (*ConfiguredMessage, error) {
	log.Debugf("%s: message contents (%s)", b.handle, contentType)
	if err := b.engine.WithMessageContents(b.handle, contentType, contents); err != nil {
		return nil, err
	}
	return &ConfiguredMessage{
		engine:      b.engine,
		pact:        b.pact,
		handle:      b.handle,
		description: b.description,
		settings:    settings,
		pactDir:     b.config.PactDir,
	}, nil
}

// ConfiguredMessage is a message description with contents, ready for Verify or VerifyAsync.
type ConfiguredMessage struct {
	engine      Engine
	pact        PactHandle
	handle      InteractionHandle
	description string
	settings    *JSONSettings
	pactDir     string
}

func (m *ConfiguredMessage) Handle() InteractionHandle {
	return m.handle
}
