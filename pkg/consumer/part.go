package consumer

import (
	"github.com/form3tech-oss/pact-consumer/pkg/matchers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// partBuilder adds headers and bodies to one side of an HTTP interaction.
type partBuilder struct {
	engine   Engine
	handle   InteractionHandle
	part     Part
	settings *JSONSettings
	headers  fieldIndex
}

func newPartBuilder(engine Engine, handle InteractionHandle, part Part, settings *JSONSettings) (partBuilder, error) {
	if engine == nil {
		return partBuilder{}, ErrMissingEngine
	}
	if settings == nil {
		return partBuilder{}, ErrMissingConfig
	}
	return partBuilder{
		engine:   engine,
		handle:   handle,
		part:     part,
		settings: settings,
		headers:  fieldIndex{},
	}, nil
}

// WithHeader adds a literal header value. Repeated names get increasing indices.
func (b *partBuilder) WithHeader(name, value string) error {
	if name == "" {
		return errors.Wrap(ErrInvalidArgument, "header name is required")
	}
	index := b.headers.next(name)
	log.Debugf("%s: %s header '%s'[%d]", b.handle, b.part, name, index)
	return b.engine.WithHeader(b.handle, b.part, name, index, value)
}

// WithHeaderMatcher adds a header value that is matched by rule instead of literally.
// It shares the index sequence of WithHeader for the same name.
func (b *partBuilder) WithHeaderMatcher(name string, rule matchers.Matcher) error {
	value, err := serializeRule(rule)
	if err != nil {
		return err
	}
	return b.WithHeader(name, value)
}

// WithJSONBody serializes body with the builder's settings.
func (b *partBuilder) WithJSONBody(body interface{}) error {
	return b.WithJSONBodyUsing(body, b.settings)
}

// WithJSONBodyUsing serializes body with settings, which replace the builder's settings for
// this call only.
func (b *partBuilder) WithJSONBodyUsing(body interface{}, settings *JSONSettings) error {
	content, err := marshalContent(body, settings)
	if err != nil {
		return err
	}
	return b.WithBody(mediaTypeJSON, content)
}

func (b *partBuilder) WithBody(contentType, body string) error {
	if contentType == "" {
		return errors.Wrap(ErrInvalidArgument, "content type is required")
	}
	log.Debugf("%s: %s body (%s)", b.handle, b.part, contentType)
	return b.engine.WithBody(b.handle, b.part, contentType, body)
}

func serializeRule(rule matchers.Matcher) (string, error) {
	value, err := matchers.Serialize(rule)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidArgument, "%v", err)
	}
	return value, nil
}

func marshalContent(content interface{}, settings *JSONSettings) (string, error) {
	if settings == nil {
		return "", errors.Wrap(ErrMissingConfig, "json settings are required")
	}
	s, err := settings.Marshal(content)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidArgument, "%v", err)
	}
	return s, nil
}

func given(engine Engine, handle InteractionHandle, state string, params map[string]string) error {
	if state == "" {
		return errors.Wrap(ErrInvalidArgument, "provider state is required")
	}
	return engine.Given(handle, state, params)
}
