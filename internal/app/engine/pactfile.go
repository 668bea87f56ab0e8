package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	keyInteractions = "interactions"
	keyMessages     = "messages"
)

// WritePactFile writes <consumer>-<provider>.json into directory. Without overwrite, entries
// of an existing file are kept unless the new pact has an entry with the same description.
func (e *Engine) WritePactFile(h consumer.PactHandle, directory string, overwrite bool) error {
	e.mu.RLock()
	p, ok := e.pacts[h.ID]
	if !ok {
		e.mu.RUnlock()
		return errors.Wrapf(ErrUnknownHandle, "%s", h)
	}
	doc, err := e.pactDocument(p)
	e.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return errors.Wrap(err, "unable to create pact directory")
	}
	file := filepath.Join(directory, PactFileName(p.consumer, p.provider))

	if !overwrite {
		existing, err := os.ReadFile(file)
		switch {
		case err == nil:
			if doc, err = mergePact(existing, doc); err != nil {
				return errors.Wrapf(err, "unable to merge into %s", file)
			}
		case !os.IsNotExist(err):
			return errors.Wrapf(err, "unable to read %s", file)
		}
	}

	log.Infof("writing pact file %s", file)
	if err := os.WriteFile(file, pretty.Pretty(doc), 0o644); err != nil {
		return errors.Wrapf(err, "unable to write %s", file)
	}
	return nil
}

func PactFileName(consumerName, providerName string) string {
	return fmt.Sprintf("%s-%s.json", sanitize(consumerName), sanitize(providerName))
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}

func (e *Engine) pactDocument(p *pact) ([]byte, error) {
	version, err := p.specification.Version()
	if err != nil {
		return nil, err
	}

	d := newDocument()
	d.set("consumer.name", p.consumer)
	d.set("provider.name", p.provider)
	for _, id := range p.interactions {
		i := e.interactions[id]
		key, build := keyInteractions, interactionDocument
		if i.kind == kindMessage {
			key, build = keyMessages, messageDocument
		}
		raw, err := build(i)
		if err != nil {
			return nil, errors.Wrapf(err, "%s '%s'", i.kind, i.description)
		}
		d.setRaw(key+".-1", string(raw))
	}
	d.set("metadata.pactSpecification.version", version)
	for _, m := range p.metadata {
		d.set("metadata."+escapeKey(m.namespace)+"."+escapeKey(m.name), m.value)
	}

	if d.err != nil {
		return nil, errors.Wrap(d.err, "unable to build pact document")
	}
	return d.raw, nil
}

// document accumulates sjson edits and keeps the first error.
type document struct {
	raw   []byte
	err   error
	rules map[string]bool
}

func newDocument() *document {
	return &document{raw: []byte(`{}`), rules: map[string]bool{}}
}

func (d *document) set(path string, value interface{}) {
	if d.err == nil {
		d.raw, d.err = sjson.SetBytes(d.raw, path, value)
	}
}

func (d *document) setRaw(path string, raw string) {
	if d.err == nil {
		d.raw, d.err = sjson.SetRawBytes(d.raw, path, []byte(raw))
	}
}

func (d *document) addRule(category, key string, rule []byte) {
	path := "matchingRules." + category
	if key != "" {
		path += "." + escapeKey(key)
	}
	if !d.rules[path] {
		d.rules[path] = true
		d.setRaw(path, `{"matchers":[],"combine":"AND"}`)
	}
	d.setRaw(path+".matchers.-1", string(rule))
}

func (d *document) setStates(states []providerState) {
	if len(states) > 0 {
		d.set("providerStates", states)
	}
}

func messageDocument(i *interaction) ([]byte, error) {
	d := newDocument()
	d.set("description", i.description)
	d.setStates(i.states)

	if i.contents.set {
		if err := setBody(d, "contents", "body", i.contents); err != nil {
			return nil, err
		}
		d.set("metaData.contentType", i.contents.contentType)
	}
	for _, m := range i.metadata {
		d.set("metaData."+escapeKey(m.key), m.value)
	}
	return d.raw, d.err
}

func interactionDocument(i *interaction) ([]byte, error) {
	d := newDocument()
	d.set("description", i.description)
	d.setStates(i.states)

	request := newDocument()
	request.set("method", i.method)
	request.set("path", i.path)
	if !i.query.empty() {
		for _, name := range i.query.names {
			for _, value := range i.query.values[name] {
				literal, rule, err := reifyValue(value)
				if err != nil {
					return nil, err
				}
				request.set("query."+escapeKey(name)+".-1", literal)
				if rule != nil {
					request.addRule("query", name, rule)
				}
			}
		}
	}
	if err := setPart(request, &i.request); err != nil {
		return nil, err
	}

	response := newDocument()
	status := i.status
	if status == 0 {
		status = 200
	}
	response.set("status", status)
	if err := setPart(response, &i.reply); err != nil {
		return nil, err
	}

	for _, part := range []*document{request, response} {
		if part.err != nil {
			return nil, part.err
		}
	}
	d.setRaw("request", string(request.raw))
	d.setRaw("response", string(response.raw))
	return d.raw, d.err
}

func setPart(d *document, p *part) error {
	for _, name := range p.headers.names {
		var literals []string
		for _, value := range p.headers.values[name] {
			literal, rule, err := reifyValue(value)
			if err != nil {
				return err
			}
			literals = append(literals, literal)
			if rule != nil {
				d.addRule("header", name, rule)
			}
		}
		d.set("headers."+escapeKey(name), strings.Join(literals, ", "))
	}
	if p.body.set {
		if p.headers.values["Content-Type"] == nil {
			d.set("headers.Content-Type", p.body.contentType)
		}
		return setBody(d, "body", "body", p.body)
	}
	return nil
}

// setBody stores the reified body at key and its matching rules under matchingRules.category.
func setBody(d *document, key, category string, b body) error {
	if !b.isJSON() {
		d.set(key, b.content)
		return nil
	}

	reified, rules, err := reifyJSON(b.content)
	if err != nil {
		return err
	}
	if err := checkRules(reified, rules); err != nil {
		return err
	}
	d.setRaw(key, reified)
	for _, r := range rules {
		d.addRule(category, r.path, r.rule)
	}
	return nil
}

func mergePact(existing, doc []byte) ([]byte, error) {
	if !gjson.ValidBytes(existing) {
		return nil, errors.New("existing pact file is not valid JSON")
	}
	for _, key := range []string{"consumer.name", "provider.name"} {
		if old, current := gjson.GetBytes(existing, key).String(), gjson.GetBytes(doc, key).String(); old != current {
			return nil, errors.Errorf("existing pact has %s '%s', not '%s'", key, old, current)
		}
	}

	var err error
	for _, key := range []string{keyInteractions, keyMessages} {
		current := gjson.GetBytes(doc, key)
		replaced := map[string]bool{}
		current.ForEach(func(_, v gjson.Result) bool {
			replaced[v.Get("description").String()] = true
			return true
		})

		var entries []string
		gjson.GetBytes(existing, key).ForEach(func(_, v gjson.Result) bool {
			if !replaced[v.Get("description").String()] {
				entries = append(entries, v.Raw)
			}
			return true
		})
		if len(entries) == 0 {
			continue
		}
		current.ForEach(func(_, v gjson.Result) bool {
			entries = append(entries, v.Raw)
			return true
		})
		doc, err = sjson.SetRawBytes(doc, key, []byte("["+strings.Join(entries, ",")+"]"))
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
