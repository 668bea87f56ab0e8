package consumer

// Engine is the command interface of the pact engine that owns mock servers, pact documents
// and pact files. Builders translate every logical addition into exactly one call, always
// carrying the owning handle. Only strings, integers and handles cross this boundary:
// bodies and matcher rules are serialized before they are sent.
type Engine interface {
	NewPact(consumer, provider string) (PactHandle, error)
	WithSpecification(pact PactHandle, specification Specification) error
	WithPactMetadata(pact PactHandle, namespace, name, value string) error

	NewInteraction(pact PactHandle, description string) (InteractionHandle, error)
	NewMessage(pact PactHandle, description string) (InteractionHandle, error)
	WithDescription(interaction InteractionHandle, description string) error
	Given(interaction InteractionHandle, state string, params map[string]string) error

	WithRequest(interaction InteractionHandle, method, path string) error
	WithQueryParameter(interaction InteractionHandle, name string, index int, value string) error
	WithHeader(interaction InteractionHandle, part Part, name string, index int, value string) error
	ResponseStatus(interaction InteractionHandle, status int) error
	WithBody(interaction InteractionHandle, part Part, contentType, body string) error

	WithMessageMetadata(message InteractionHandle, key, value string) error
	WithMessageContents(message InteractionHandle, contentType, contents string) error

	// Reify returns the message contents with every matcher replaced by its example value.
	Reify(message InteractionHandle) (string, error)

	// WritePactFile writes the pact to directory. With overwrite false the interactions are
	// merged into an existing file for the same consumer and provider.
	WritePactFile(pact PactHandle, directory string, overwrite bool) error
}
