package consumer

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Verify reifies the message, binds it onto T and passes it to handler. When reification
// fails, the contents do not bind or the handler returns an error or panics, a
// *VerificationError is returned and no pact is written. Otherwise the pact is written, replacing any existing file.
func Verify[T any](m *ConfiguredMessage, handler func(T) error) error {
	if m == nil || handler == nil {
		return errors.Wrap(ErrInvalidArgument, "message and handler are required")
	}

	message, err := reify[T](m)
	if err != nil {
		return err
	}
	if err := m.invoke(func() error { return handler(message) }); err != nil {
		return err
	}
	return m.writePact()
}

// VerifyAsync is Verify for handlers that run asynchronously. The outcome, including
// failures that happen before the handler runs, is delivered on the returned channel,
// which receives exactly one value and is then closed.
func VerifyAsync[T any](ctx context.Context, m *ConfiguredMessage, handler func(context.Context, T) error) <-chan error {
	result := make(chan error, 1)
	fail := func(err error) <-chan error {
		result <- err
		close(result)
		return result
	}

	if m == nil || handler == nil {
		return fail(errors.Wrap(ErrInvalidArgument, "message and handler are required"))
	}
	message, err := reify[T](m)
	if err != nil {
		return fail(err)
	}

	go func() {
		defer close(result)
		if err := m.invoke(func() error { return handler(ctx, message) }); err != nil {
			result <- err
			return
		}
		result <- m.writePact()
	}()
	return result
}

func reify[T any](m *ConfiguredMessage) (T, error) {
	var message T

	log.Infof("verifying message '%s'", m.description)
	contents, err := m.engine.Reify(m.handle)
	if err != nil {
		log.WithField("message", m.description).Warn(err)
		return message, newVerificationError(m.description, reasonReify, err)
	}

	if err := m.settings.Unmarshal(contents, &message); err != nil {
		log.WithField("message", m.description).Warn(err)
		return message, newVerificationError(m.description, reasonDecode, err)
	}
	return message, nil
}

func (m *ConfiguredMessage) invoke(handle func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newVerificationError(m.description, reasonHandler, errors.Errorf("panic: %v", r))
		}
		if err != nil {
			log.WithField("message", m.description).Warn(err)
		}
	}()

	if err := handle(); err != nil {
		return newVerificationError(m.description, reasonHandler, err)
	}
	return nil
}

func (m *ConfiguredMessage) writePact() error {
	if err := m.engine.WritePactFile(m.pact, m.pactDir, true); err != nil {
		return errors.Wrapf(err, "unable to write pact for message '%s'", m.description)
	}
	log.Infof("message '%s' verified", m.description)
	return nil
}
