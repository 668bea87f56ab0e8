package consumer

import (
	"net/http"
	"strings"

	"github.com/form3tech-oss/pact-consumer/pkg/matchers"
	"github.com/pkg/errors"
)

var httpMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// RequestBuilder describes the request of an HTTP interaction.
type RequestBuilder struct {
	partBuilder
	query    fieldIndex
	response *ResponseBuilder
}

func NewRequestBuilder(engine Engine, handle InteractionHandle, settings *JSONSettings) (*RequestBuilder, error) {
	part, err := newPartBuilder(engine, handle, PartRequest, settings)
	if err != nil {
		return nil, err
	}
	response, err := NewResponseBuilder(engine, handle, settings)
	if err != nil {
		return nil, err
	}
	return &RequestBuilder{
		partBuilder: part,
		query:       fieldIndex{},
		response:    response,
	}, nil
}

func (b *RequestBuilder) Given(state string) error {
	return given(b.engine, b.handle, state, nil)
}

func (b *RequestBuilder) GivenWithParams(state string, params map[string]string) error {
	return given(b.engine, b.handle, state, params)
}

func (b *RequestBuilder) WithRequest(method, path string) error {
	method = strings.ToUpper(method)
	if !httpMethods[method] {
		return errors.Wrapf(ErrInvalidArgument, "unsupported method %q", method)
	}
	if !strings.HasPrefix(path, "/") {
		return errors.Wrapf(ErrInvalidArgument, "path %q must start with /", path)
	}
	return b.engine.WithRequest(b.handle, method, path)
}

func (b *RequestBuilder) WithQuery(name, value string) error {
	if name == "" {
		return errors.Wrap(ErrInvalidArgument, "query parameter name is required")
	}
	return b.engine.WithQueryParameter(b.handle, name, b.query.next(name), value)
}

func (b *RequestBuilder) WithQueryMatcher(name string, rule matchers.Matcher) error {
	value, err := serializeRule(rule)
	if err != nil {
		return err
	}
	return b.WithQuery(name, value)
}

// WillRespond returns the builder of the response to this request.
func (b *RequestBuilder) WillRespond() *ResponseBuilder {
	return b.response
}
