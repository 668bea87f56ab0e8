package engine

import (
	"encoding/json"
	"testing"

	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalTestJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func newTestPact(t *testing.T, e *Engine) consumer.PactHandle {
	t.Helper()
	h, err := e.NewPact("order-service", "billing-service")
	require.NoError(t, err)
	return h
}

func TestEngine_HandlesAreUnique(t *testing.T) {
	e := New()
	p := newTestPact(t, e)

	first, err := e.NewInteraction(p, "first")
	require.NoError(t, err)
	second, err := e.NewMessage(p, "second")
	require.NoError(t, err)

	assert.NotEqual(t, p.ID, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEngine_RequiresNames(t *testing.T) {
	_, err := New().NewPact("", "provider")
	require.Error(t, err)
}

func TestEngine_UnknownHandles(t *testing.T) {
	e := New()
	unknownPact := consumer.PactHandle{ID: 99}
	unknownInteraction := consumer.InteractionHandle{ID: 99}

	_, err := e.NewInteraction(unknownPact, "x")
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.ErrorIs(t, e.WithPactMetadata(unknownPact, "ns", "k", "v"), ErrUnknownHandle)
	assert.ErrorIs(t, e.WithDescription(unknownInteraction, "x"), ErrUnknownHandle)
	assert.ErrorIs(t, e.WithRequest(unknownInteraction, "GET", "/"), ErrUnknownHandle)
	_, err = e.Reify(unknownInteraction)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.ErrorIs(t, e.WritePactFile(unknownPact, t.TempDir(), true), ErrUnknownHandle)
}

func TestEngine_OperationsCheckInteractionKind(t *testing.T) {
	e := New()
	p := newTestPact(t, e)
	httpInteraction, err := e.NewInteraction(p, "a request")
	require.NoError(t, err)
	message, err := e.NewMessage(p, "an event")
	require.NoError(t, err)

	assert.ErrorIs(t, e.WithMessageContents(httpInteraction, "application/json", `{}`), ErrWrongKind)
	assert.ErrorIs(t, e.WithMessageMetadata(httpInteraction, "queue", "orders"), ErrWrongKind)
	_, err = e.Reify(httpInteraction)
	assert.ErrorIs(t, err, ErrWrongKind)

	assert.ErrorIs(t, e.WithRequest(message, "GET", "/"), ErrWrongKind)
	assert.ErrorIs(t, e.WithHeader(message, consumer.PartRequest, "X", 0, "v"), ErrWrongKind)
	assert.ErrorIs(t, e.ResponseStatus(message, 200), ErrWrongKind)
	assert.ErrorIs(t, e.WithBody(message, consumer.PartResponse, "text/plain", "x"), ErrWrongKind)

	require.NoError(t, e.Given(message, "an order exists", nil))
	require.NoError(t, e.Given(httpInteraction, "an order exists", map[string]string{"id": "1"}))
}

func TestEngine_UnknownSpecification(t *testing.T) {
	e := New()
	p := newTestPact(t, e)
	assert.ErrorIs(t, e.WithSpecification(p, consumer.Specification("V9")), consumer.ErrInvalidArgument)
	require.NoError(t, e.WithSpecification(p, consumer.SpecificationV4))
}

func TestEngine_Reify(t *testing.T) {
	e := New()
	p := newTestPact(t, e)

	t.Run("json contents", func(t *testing.T) {
		m, err := e.NewMessage(p, "an order was created")
		require.NoError(t, err)
		require.NoError(t, e.WithMessageContents(m, "application/json", `{"id":{"pact:matcher:type":"integer","value":10}}`))

		reified, err := e.Reify(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":10}`, reified)
	})

	t.Run("vendor json contents", func(t *testing.T) {
		m, err := e.NewMessage(p, "an order was shipped")
		require.NoError(t, err)
		require.NoError(t, e.WithMessageContents(m, "application/vnd.orders+json; charset=utf-8", `{"id":{"pact:matcher:type":"type","value":"x"}}`))

		reified, err := e.Reify(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"x"}`, reified)
	})

	t.Run("text contents are returned as is", func(t *testing.T) {
		m, err := e.NewMessage(p, "a text event")
		require.NoError(t, err)
		require.NoError(t, e.WithMessageContents(m, "text/plain", "hello"))

		reified, err := e.Reify(m)
		require.NoError(t, err)
		assert.Equal(t, "hello", reified)
	})

	t.Run("missing contents", func(t *testing.T) {
		m, err := e.NewMessage(p, "an empty event")
		require.NoError(t, err)

		_, err = e.Reify(m)
		require.Error(t, err)
	})

	t.Run("last contents win", func(t *testing.T) {
		m, err := e.NewMessage(p, "a replaced event")
		require.NoError(t, err)
		require.NoError(t, e.WithMessageContents(m, "application/json", `{"v":1}`))
		require.NoError(t, e.WithMessageContents(m, "application/json", `{"v":2}`))

		reified, err := e.Reify(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, reified)
	})
}

func TestIndexedValues(t *testing.T) {
	var v indexedValues
	require.NoError(t, v.set("X-Trace", 1, "b"))
	require.NoError(t, v.set("X-Other", 0, "z"))
	require.NoError(t, v.set("X-Trace", 0, "a"))
	require.Error(t, v.set("X-Trace", -1, "c"))

	assert.Equal(t, []string{"X-Trace", "X-Other"}, v.names)
	assert.Equal(t, []string{"a", "b"}, v.values["X-Trace"])
	assert.False(t, v.empty())
}

func TestIsJSONMediaType(t *testing.T) {
	assert.True(t, isJSONMediaType("application/json"))
	assert.True(t, isJSONMediaType("application/json; charset=utf-8"))
	assert.True(t, isJSONMediaType("application/hal+json"))
	assert.False(t, isJSONMediaType("text/plain"))
	assert.False(t, isJSONMediaType(""))
	assert.False(t, isJSONMediaType(";;"))
}
