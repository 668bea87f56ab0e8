package consumer

// ResponseBuilder describes the response of an HTTP interaction.
type ResponseBuilder struct {
	partBuilder
}

func NewResponseBuilder(engine Engine, handle InteractionHandle, settings *JSONSettings) (*ResponseBuilder, error) {
	part, err := newPartBuilder(engine, handle, PartResponse, settings)
	if err != nil {
		return nil, err
	}
	return &ResponseBuilder{partBuilder: part}, nil
}

// WithStatus sets the response status. Status constants such as http.StatusUnauthorized
// and their numeric values are equivalent.
func (b *ResponseBuilder) WithStatus(code int) error {
	if err := validateStatus(code); err != nil {
		return err
	}
	return b.engine.ResponseStatus(b.handle, code)
}

// WithStatusName sets the response status from its name, e.g. "Unauthorized".
func (b *ResponseBuilder) WithStatusName(name string) error {
	code, err := ParseStatus(name)
	if err != nil {
		return err
	}
	return b.engine.ResponseStatus(b.handle, code)
}
