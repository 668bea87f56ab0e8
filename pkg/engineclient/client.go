package engineclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StatusError is returned when the engine service answers with a non 2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.StatusCode, e.Message)
}

// Client drives an engine service over HTTP.
type Client struct {
	client http.Client
	url    string
}

var _ consumer.Engine = (*Client)(nil)

func New(url string) *Client {
	return &Client{
		client: http.Client{
			Timeout: 30 * time.Second,
		},
		url: strings.TrimSuffix(url, "/"),
	}
}

func (c *Client) IsReady() error {
	return c.do(http.MethodGet, "/ready", nil, nil)
}

// WaitForReady polls the service until it answers or ctx is done.
func (c *Client) WaitForReady(ctx context.Context) error {
	err := retry.Do(c.IsReady,
		retry.Attempts(10),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return errors.Wrap(err, "engine readiness wait failed")
	}
	return nil
}

func (c *Client) NewPact(consumerName, providerName string) (consumer.PactHandle, error) {
	var res HandleResponse
	err := c.do(http.MethodPost, "/pacts", PactRequest{Consumer: consumerName, Provider: providerName}, &res)
	return consumer.PactHandle{ID: res.ID}, err
}

func (c *Client) WithSpecification(h consumer.PactHandle, specification consumer.Specification) error {
	return c.do(http.MethodPut, pactPath(h, "specification"), SpecificationRequest{Specification: string(specification)}, nil)
}

func (c *Client) WithPactMetadata(h consumer.PactHandle, namespace, name, value string) error {
	return c.do(http.MethodPost, pactPath(h, "metadata"), PactMetadataRequest{Namespace: namespace, Name: name, Value: value}, nil)
}

func (c *Client) NewInteraction(h consumer.PactHandle, description string) (consumer.InteractionHandle, error) {
	var res HandleResponse
	err := c.do(http.MethodPost, pactPath(h, "interactions"), DescriptionRequest{Description: description}, &res)
	return consumer.InteractionHandle{ID: res.ID}, err
}

func (c *Client) NewMessage(h consumer.PactHandle, description string) (consumer.InteractionHandle, error) {
	var res HandleResponse
	err := c.do(http.MethodPost, pactPath(h, "messages"), DescriptionRequest{Description: description}, &res)
	return consumer.InteractionHandle{ID: res.ID}, err
}

func (c *Client) WithDescription(h consumer.InteractionHandle, description string) error {
	return c.do(http.MethodPut, interactionPath(h, "description"), DescriptionRequest{Description: description}, nil)
}

func (c *Client) Given(h consumer.InteractionHandle, state string, params map[string]string) error {
	return c.do(http.MethodPost, interactionPath(h, "states"), StateRequest{Name: state, Params: params}, nil)
}

func (c *Client) WithRequest(h consumer.InteractionHandle, method, path string) error {
	return c.do(http.MethodPut, interactionPath(h, "request"), RequestLine{Method: method, Path: path}, nil)
}

func (c *Client) WithQueryParameter(h consumer.InteractionHandle, name string, index int, value string) error {
	return c.do(http.MethodPost, interactionPath(h, "query"), IndexedValueRequest{Name: name, Index: index, Value: value}, nil)
}

func (c *Client) WithHeader(h consumer.InteractionHandle, part consumer.Part, name string, index int, value string) error {
	req := IndexedValueRequest{Part: part.String(), Name: name, Index: index, Value: value}
	return c.do(http.MethodPost, interactionPath(h, "headers"), req, nil)
}

func (c *Client) ResponseStatus(h consumer.InteractionHandle, status int) error {
	return c.do(http.MethodPut, interactionPath(h, "status"), StatusRequest{Status: status}, nil)
}

func (c *Client) WithBody(h consumer.InteractionHandle, part consumer.Part, contentType, body string) error {
	req := BodyRequest{Part: part.String(), ContentType: contentType, Body: body}
	return c.do(http.MethodPut, interactionPath(h, "body"), req, nil)
}

func (c *Client) WithMessageMetadata(h consumer.InteractionHandle, key, value string) error {
	return c.do(http.MethodPost, interactionPath(h, "metadata"), MessageMetadataRequest{Key: key, Value: value}, nil)
}

func (c *Client) WithMessageContents(h consumer.InteractionHandle, contentType, contents string) error {
	return c.do(http.MethodPut, interactionPath(h, "contents"), ContentsRequest{ContentType: contentType, Contents: contents}, nil)
}

func (c *Client) Reify(h consumer.InteractionHandle) (string, error) {
	var res ReifyResponse
	err := c.do(http.MethodGet, interactionPath(h, "reify"), nil, &res)
	return res.Contents, err
}

func (c *Client) WritePactFile(h consumer.PactHandle, directory string, overwrite bool) error {
	return c.do(http.MethodPost, pactPath(h, "write"), WriteRequest{Directory: directory, Overwrite: overwrite}, nil)
}

func pactPath(h consumer.PactHandle, resource string) string {
	return fmt.Sprintf("/pacts/%d/%s", h.ID, resource)
}

func interactionPath(h consumer.InteractionHandle, resource string) string {
	return fmt.Sprintf("/interactions/%d/%s", h.ID, resource)
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		content, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(content)
	}

	req, err := http.NewRequest(method, c.url+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(log.Fields{"method": method, "path": path}).Debug("calling engine")
	res, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := APIError{ErrorMessage: string(responseBody)}
		_ = json.Unmarshal(responseBody, &apiErr)
		return &StatusError{StatusCode: res.StatusCode, Message: apiErr.ErrorMessage}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, result); err != nil {
		return errors.Wrapf(err, "failed to decode response of %s %s", method, path)
	}
	return nil
}
