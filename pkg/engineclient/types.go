package engineclient

// Request and response bodies of the engine HTTP API.

type PactRequest struct {
	Consumer string `json:"consumer"`
	Provider string `json:"provider"`
}

type HandleResponse struct {
	ID uint32 `json:"id"`
}

type SpecificationRequest struct {
	Specification string `json:"specification"`
}

type PactMetadataRequest struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

type DescriptionRequest struct {
	Description string `json:"description"`
}

type StateRequest struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

type RequestLine struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type IndexedValueRequest struct {
	Part  string `json:"part,omitempty"`
	Name  string `json:"name"`
	Index int    `json:"index"`
	Value string `json:"value"`
}

type StatusRequest struct {
	Status int `json:"status"`
}

type BodyRequest struct {
	Part        string `json:"part"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

type MessageMetadataRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ContentsRequest struct {
	ContentType string `json:"content_type"`
	Contents    string `json:"contents"`
}

type ReifyResponse struct {
	Contents string `json:"contents"`
}

type WriteRequest struct {
	Directory string `json:"directory"`
	Overwrite bool   `json:"overwrite"`
}

type APIError struct {
	ErrorMessage string `json:"error_message"`
}
