package consumer

import (
	"github.com/stretchr/testify/mock"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) NewPact(consumer, provider string) (PactHandle, error) {
	args := m.Called(consumer, provider)
	return args.Get(0).(PactHandle), args.Error(1)
}

func (m *mockEngine) WithSpecification(pact PactHandle, specification Specification) error {
	return m.Called(pact, specification).Error(0)
}

func (m *mockEngine) WithPactMetadata(pact PactHandle, namespace, name, value string) error {
	return m.Called(pact, namespace, name, value).Error(0)
}

func (m *mockEngine) NewInteraction(pact PactHandle, description string) (InteractionHandle, error) {
	args := m.Called(pact, description)
	return args.Get(0).(InteractionHandle), args.Error(1)
}

func (m *mockEngine) NewMessage(pact PactHandle, description string) (InteractionHandle, error) {
	args := m.Called(pact, description)
	return args.Get(0).(InteractionHandle), args.Error(1)
}

func (m *mockEngine) WithDescription(interaction InteractionHandle, description string) error {
	return m.Called(interaction, description).Error(0)
}

func (m *mockEngine) Given(interaction InteractionHandle, state string, params map[string]string) error {
	return m.Called(interaction, state, params).Error(0)
}

func (m *mockEngine) WithRequest(interaction InteractionHandle, method, path string) error {
	return m.Called(interaction, method, path).Error(0)
}

func (m *mockEngine) WithQueryParameter(interaction InteractionHandle, name string, index int, value string) error {
	return m.Called(interaction, name, index, value).Error(0)
}

func (m *mockEngine) WithHeader(interaction InteractionHandle, part Part, name string, index int, value string) error {
	return m.Called(interaction, part, name, index, value).Error(0)
}

func (m *mockEngine) ResponseStatus(interaction InteractionHandle, status int) error {
	return m.Called(interaction, status).Error(0)
}

func (m *mockEngine) WithBody(interaction InteractionHandle, part Part, contentType, body string) error {
	return m.Called(interaction, part, contentType, body).Error(0)
}

func (m *mockEngine) WithMessageMetadata(message InteractionHandle, key, value string) error {
	return m.Called(message, key, value).Error(0)
}

func (m *mockEngine) WithMessageContents(message InteractionHandle, contentType, contents string) error {
	return m.Called(message, contentType, contents).Error(0)
}

func (m *mockEngine) Reify(message InteractionHandle) (string, error) {
	args := m.Called(message)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) WritePactFile(pact PactHandle, directory string, overwrite bool) error {
	return m.Called(pact, directory, overwrite).Error(0)
}
