package engine

import (
	"mime"
	"strings"

	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/pkg/errors"
)

const mediaTypeJSON = "application/json"

type interactionKind int

const (
	kindHTTP interactionKind = iota
	kindMessage
)

func (k interactionKind) String() string {
	if k == kindMessage {
		return "message"
	}
	return "http interaction"
}

type providerState struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

type metadataEntry struct {
	key   string
	value string
}

// indexedValues keeps repeated header or query values at the index the builder assigned.
type indexedValues struct {
	names  []string
	values map[string][]string
}

func (v *indexedValues) set(name string, index int, value string) error {
	if index < 0 {
		return errors.Errorf("index %d of '%s' must not be negative", index, name)
	}
	if v.values == nil {
		v.values = map[string][]string{}
	}
	existing, ok := v.values[name]
	if !ok {
		v.names = append(v.names, name)
	}
	for len(existing) <= index {
		existing = append(existing, "")
	}
	existing[index] = value
	v.values[name] = existing
	return nil
}

func (v *indexedValues) empty() bool {
	return len(v.names) == 0
}

type body struct {
	contentType string
	content     string
	set         bool
}

func (b *body) isJSON() bool {
	return isJSONMediaType(b.contentType)
}

type part struct {
	headers indexedValues
	body    body
}

type interaction struct {
	pact        uint32
	kind        interactionKind
	description string
	states      []providerState

	method  string
	path    string
	query   indexedValues
	status  int
	request part
	reply   part

	metadata []metadataEntry
	contents body
}

func (i *interaction) part(p consumer.Part) *part {
	if p == consumer.PartRequest {
		return &i.request
	}
	return &i.reply
}

func (i *interaction) setMetadata(key, value string) {
	for n := range i.metadata {
		if i.metadata[n].key == key {
			i.metadata[n].value = value
			return
		}
	}
	i.metadata = append(i.metadata, metadataEntry{key: key, value: value})
}

func isJSONMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == mediaTypeJSON || strings.HasSuffix(mediaType, "+json")
}
