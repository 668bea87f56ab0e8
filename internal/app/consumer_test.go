package app

import (
	"testing"
)

func TestMessageVerification(t *testing.T) {
	given, when, then := NewConsumerStage(t)

	given.
		a_pact_with_the_orders_provider().and().
		an_order_created_message_with_matchers()

	when.
		the_message_is_verified_with_a_handler_that_succeeds()

	then.
		verification_is_successful().and().
		the_handler_received_the_example_order().and().
		the_pact_file_contains_the_message_with_its_matching_rules()
}

func TestAsyncMessageVerification(t *testing.T) {
	given, when, then := NewConsumerStage(t)

	given.
		a_pact_with_the_orders_provider().and().
		an_order_created_message_with_matchers()

	when.
		the_message_is_verified_asynchronously_with_a_handler_that_succeeds()

	then.
		verification_is_successful().and().
		the_handler_received_the_example_order().and().
		the_pact_file_contains_the_message_with_its_matching_rules()
}

func TestMessageVerificationHandlerFailure(t *testing.T) {
	given, when, then := NewConsumerStage(t)

	given.
		a_pact_with_the_orders_provider().and().
		an_order_created_message_with_matchers()

	when.
		the_message_is_verified_with_a_handler_that_fails()

	then.
		verification_fails_with_("message handler failed").and().
		no_pact_file_is_written()
}

func TestMessageVerificationContentMismatch(t *testing.T) {
	given, when, then := NewConsumerStage(t)

	given.
		a_pact_with_the_orders_provider().and().
		an_order_created_message_with_content_(`{"OrderNumber":"ORD-1"}`)

	when.
		the_message_is_verified_with_a_handler_that_succeeds()

	then.
		verification_fails_with_("unable to deserialize message content").and().
		the_handler_was_not_called().and().
		no_pact_file_is_written()
}

func TestHTTPInteractionWrittenToPactFile(t *testing.T) {
	given, when, then := NewConsumerStage(t)

	given.
		camel_case_serialization().and().
		a_pact_with_the_orders_provider().and().
		pact_metadata_("build", "commit", "abc123").and().
		an_invoice_request_interaction()

	when.
		the_pact_file_is_written()

	then.
		the_pact_file_contains_the_invoice_interaction().and().
		the_pact_metadata_has_("build", "commit", "abc123")
}
