package app

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/form3tech-oss/pact-consumer/internal/app/engine"
	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/form3tech-oss/pact-consumer/pkg/engineclient"
	"github.com/form3tech-oss/pact-consumer/pkg/matchers"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const orderCreated = "an order created event"

type order struct {
	OrderID   string
	Quantity  int
	Reference *string `json:",omitempty"`
}

type invoice struct {
	InvoiceNumber string
	TotalAmount   float64
}

type ConsumerStage struct {
	t         *testing.T
	assert    *assert.Assertions
	require   *require.Assertions
	client    *engineclient.Client
	config    *consumer.Config
	pact      *consumer.Pact
	consumer  string
	message   *consumer.ConfiguredMessage
	verifyErr error
	received  []order
}

func NewConsumerStage(t *testing.T) (*ConsumerStage, *ConsumerStage, *ConsumerStage) {
	config := consumer.DefaultConfig()
	config.PactDir = t.TempDir()

	s := &ConsumerStage{
		t:        t,
		assert:   assert.New(t),
		require:  require.New(t),
		client:   engineclient.New(engineURL.String()),
		config:   config,
		consumer: "web-" + strconv.FormatInt(time.Now().UnixNano(), 10),
	}

	return s, s, s
}

func (s *ConsumerStage) and() *ConsumerStage {
	return s
}

func (s *ConsumerStage) a_pact_with_the_orders_provider() *ConsumerStage {
	pact, err := consumer.NewPact(s.client, s.consumer, "orders", s.config)
	s.require.NoError(err)
	s.pact = pact
	return s
}

func (s *ConsumerStage) camel_case_serialization() *ConsumerStage {
	s.config.JSON = &consumer.JSONSettings{Naming: consumer.CamelCase, Strict: true}
	return s
}

func (s *ConsumerStage) pact_metadata_(namespace, name, value string) *ConsumerStage {
	s.require.NoError(s.pact.WithPactMetadata(namespace, name, value))
	return s
}

func (s *ConsumerStage) an_order_created_message_with_matchers() *ConsumerStage {
	b, err := s.pact.ExpectsToReceive(orderCreated)
	s.require.NoError(err)
	s.require.NoError(b.Given("an order exists"))
	s.require.NoError(b.WithMetadata("queue", "orders"))

	s.message, err = b.WithJSONContent(map[string]interface{}{
		"OrderID":  matchers.MustRegex("ORD-1", `^ORD-\d+$`),
		"Quantity": matchers.Integer(3),
	})
	s.require.NoError(err)
	return s
}

func (s *ConsumerStage) an_order_created_message_with_content_(content string) *ConsumerStage {
	b, err := s.pact.ExpectsToReceive(orderCreated)
	s.require.NoError(err)

	s.message, err = b.WithContent("application/json", content)
	s.require.NoError(err)
	return s
}

func (s *ConsumerStage) an_invoice_request_interaction() *ConsumerStage {
	r, err := s.pact.UponReceiving("a request for an invoice")
	s.require.NoError(err)
	s.require.NoError(r.GivenWithParams("an invoice exists", map[string]string{"number": "INV-1"}))
	s.require.NoError(r.WithRequest("get", "/invoices/INV-1"))
	s.require.NoError(r.WithQuery("expand", "lines"))
	s.require.NoError(r.WithHeader("X-Trace", "fixed"))
	s.require.NoError(r.WithHeaderMatcher("X-Trace", matchers.MustRegex("abc-1", `^[a-z]+-\d+$`)))

	response := r.WillRespond()
	s.require.NoError(response.WithStatusName("OK"))
	s.require.NoError(response.WithJSONBody(invoice{InvoiceNumber: "INV-1", TotalAmount: 12.5}))
	return s
}

func (s *ConsumerStage) the_message_is_verified_with_a_handler_that_succeeds() *ConsumerStage {
	s.verifyErr = consumer.Verify(s.message, func(o order) error {
		s.received = append(s.received, o)
		return nil
	})
	return s
}

func (s *ConsumerStage) the_message_is_verified_asynchronously_with_a_handler_that_succeeds() *ConsumerStage {
	result := consumer.VerifyAsync(context.Background(), s.message, func(_ context.Context, o order) error {
		s.received = append(s.received, o)
		return nil
	})

	select {
	case s.verifyErr = <-result:
	case <-time.After(10 * time.Second):
		s.t.Fatal("timed out waiting for verification")
	}
	return s
}

func (s *ConsumerStage) the_message_is_verified_with_a_handler_that_fails() *ConsumerStage {
	s.verifyErr = consumer.Verify(s.message, func(o order) error {
		return errors.Errorf("order %s rejected", o.OrderID)
	})
	return s
}

func (s *ConsumerStage) the_pact_file_is_written() *ConsumerStage {
	s.require.NoError(s.pact.WritePactFile())
	return s
}

func (s *ConsumerStage) verification_is_successful() *ConsumerStage {
	s.require.NoError(s.verifyErr)
	return s
}

func (s *ConsumerStage) verification_fails_with_(reason string) *ConsumerStage {
	var verificationErr *consumer.VerificationError
	s.require.True(errors.As(s.verifyErr, &verificationErr), "expected a verification error, got %v", s.verifyErr)
	s.assert.Equal(orderCreated, verificationErr.Description)
	s.assert.Contains(s.verifyErr.Error(), reason)
	return s
}

func (s *ConsumerStage) the_handler_received_the_example_order() *ConsumerStage {
	s.require.Len(s.received, 1)
	s.assert.Equal(order{OrderID: "ORD-1", Quantity: 3}, s.received[0])
	return s
}

func (s *ConsumerStage) the_handler_was_not_called() *ConsumerStage {
	s.assert.Empty(s.received)
	return s
}

func (s *ConsumerStage) pactFile() string {
	return filepath.Join(s.config.PactDir, engine.PactFileName(s.consumer, "orders"))
}

func (s *ConsumerStage) no_pact_file_is_written() *ConsumerStage {
	_, err := os.Stat(s.pactFile())
	s.assert.True(os.IsNotExist(err), "pact file should not exist")
	return s
}

func (s *ConsumerStage) readPact() gjson.Result {
	raw, err := os.ReadFile(s.pactFile())
	s.require.NoError(err)
	s.require.True(gjson.ValidBytes(raw))
	return gjson.ParseBytes(raw)
}

func (s *ConsumerStage) the_pact_file_contains_the_message_with_its_matching_rules() *ConsumerStage {
	doc := s.readPact()
	s.assert.Equal(s.consumer, doc.Get("consumer.name").String())
	s.assert.Equal("orders", doc.Get("provider.name").String())
	s.assert.Equal("3.0.0", doc.Get("metadata.pactSpecification.version").String())

	message := doc.Get("messages.0")
	s.assert.Equal(orderCreated, message.Get("description").String())
	s.assert.Equal("an order exists", message.Get("providerStates.0.name").String())
	s.assert.JSONEq(`{"OrderID":"ORD-1","Quantity":3}`, message.Get("contents").Raw)
	s.assert.Equal("orders", message.Get("metaData.queue").String())
	s.assert.Equal("regex", message.Get(`matchingRules.body.$\.OrderID.matchers.0.match`).String())
	s.assert.Equal("integer", message.Get(`matchingRules.body.$\.Quantity.matchers.0.match`).String())
	return s
}

func (s *ConsumerStage) the_pact_file_contains_the_invoice_interaction() *ConsumerStage {
	doc := s.readPact()
	interaction := doc.Get("interactions.0")
	s.assert.Equal("a request for an invoice", interaction.Get("description").String())
	s.assert.Equal("INV-1", interaction.Get("providerStates.0.params.number").String())

	request := interaction.Get("request")
	s.assert.Equal("GET", request.Get("method").String())
	s.assert.Equal("/invoices/INV-1", request.Get("path").String())
	s.assert.JSONEq(`["lines"]`, request.Get("query.expand").Raw)
	s.assert.Equal("fixed, abc-1", request.Get("headers.X-Trace").String())
	s.assert.Equal("regex", request.Get("matchingRules.header.X-Trace.matchers.0.match").String())

	response := interaction.Get("response")
	s.assert.Equal(int64(200), response.Get("status").Int())
	s.assert.JSONEq(`{"invoiceNumber":"INV-1","totalAmount":12.5}`, response.Get("body").Raw)
	return s
}

func (s *ConsumerStage) the_pact_metadata_has_(namespace, name, value string) *ConsumerStage {
	s.assert.Equal(value, s.readPact().Get(strings.Join([]string{"metadata", namespace, name}, ".")).String())
	return s
}
