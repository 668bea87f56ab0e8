package engine

import (
	"sync"

	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUnknownHandle = errors.New("unknown handle")
	ErrWrongKind     = errors.New("operation not supported by interaction")
)

type pact struct {
	consumer      string
	provider      string
	specification consumer.Specification
	metadata      []pactMetadata
	interactions  []uint32
}

type pactMetadata struct {
	namespace string
	name      string
	value     string
}

// Engine keeps pacts and their interactions in memory and writes them as pact files.
// It is safe for concurrent use.
type Engine struct {
	mu           sync.RWMutex
	lastID       uint32
	pacts        map[uint32]*pact
	interactions map[uint32]*interaction
}

var _ consumer.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{
		pacts:        map[uint32]*pact{},
		interactions: map[uint32]*interaction{},
	}
}

func (e *Engine) nextID() uint32 {
	e.lastID++
	return e.lastID
}

func (e *Engine) NewPact(consumerName, providerName string) (consumer.PactHandle, error) {
	if consumerName == "" || providerName == "" {
		return consumer.PactHandle{}, errors.New("consumer and provider names are required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID()
	e.pacts[id] = &pact{
		consumer:      consumerName,
		provider:      providerName,
		specification: consumer.SpecificationV3,
	}
	log.Infof("storing pact between '%s' and '%s'", consumerName, providerName)
	return consumer.PactHandle{ID: id}, nil
}

func (e *Engine) WithSpecification(h consumer.PactHandle, specification consumer.Specification) error {
	if _, err := specification.Version(); err != nil {
		return err
	}
	return e.updatePact(h, func(p *pact) error {
		p.specification = specification
		return nil
	})
}

func (e *Engine) WithPactMetadata(h consumer.PactHandle, namespace, name, value string) error {
	return e.updatePact(h, func(p *pact) error {
		for i := range p.metadata {
			if p.metadata[i].namespace == namespace && p.metadata[i].name == name {
				p.metadata[i].value = value
				return nil
			}
		}
		p.metadata = append(p.metadata, pactMetadata{namespace: namespace, name: name, value: value})
		return nil
	})
}

func (e *Engine) NewInteraction(h consumer.PactHandle, description string) (consumer.InteractionHandle, error) {
	return e.newInteraction(h, kindHTTP, description)
}

func (e *Engine) NewMessage(h consumer.PactHandle, description string) (consumer.InteractionHandle, error) {
	return e.newInteraction(h, kindMessage, description)
}

func (e *Engine) newInteraction(h consumer.PactHandle, kind interactionKind, description string) (consumer.InteractionHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pacts[h.ID]
	if !ok {
		return consumer.InteractionHandle{}, errors.Wrapf(ErrUnknownHandle, "%s", h)
	}
	id := e.nextID()
	e.interactions[id] = &interaction{
		pact:        h.ID,
		kind:        kind,
		description: description,
	}
	p.interactions = append(p.interactions, id)

	log.Infof("storing %s '%s'", kind, description)
	return consumer.InteractionHandle{ID: id}, nil
}

func (e *Engine) WithDescription(h consumer.InteractionHandle, description string) error {
	return e.update(h, func(i *interaction) error {
		i.description = description
		return nil
	})
}

func (e *Engine) Given(h consumer.InteractionHandle, state string, params map[string]string) error {
	return e.update(h, func(i *interaction) error {
		copied := make(map[string]string, len(params))
		for k, v := range params {
			copied[k] = v
		}
		i.states = append(i.states, providerState{Name: state, Params: copied})
		return nil
	})
}

func (e *Engine) WithRequest(h consumer.InteractionHandle, method, path string) error {
	return e.updateKind(h, kindHTTP, func(i *interaction) error {
		i.method = method
		i.path = path
		return nil
	})
}

func (e *Engine) WithQueryParameter(h consumer.InteractionHandle, name string, index int, value string) error {
	return e.updateKind(h, kindHTTP, func(i *interaction) error {
		return i.query.set(name, index, value)
	})
}

func (e *Engine) WithHeader(h consumer.InteractionHandle, p consumer.Part, name string, index int, value string) error {
	return e.updateKind(h, kindHTTP, func(i *interaction) error {
		return i.part(p).headers.set(name, index, value)
	})
}

func (e *Engine) ResponseStatus(h consumer.InteractionHandle, status int) error {
	return e.updateKind(h, kindHTTP, func(i *interaction) error {
		i.status = status
		return nil
	})
}

func (e *Engine) WithBody(h consumer.InteractionHandle, p consumer.Part, contentType, content string) error {
	return e.updateKind(h, kindHTTP, func(i *interaction) error {
		i.part(p).body = body{contentType: contentType, content: content, set: true}
		return nil
	})
}

func (e *Engine) WithMessageMetadata(h consumer.InteractionHandle, key, value string) error {
	return e.updateKind(h, kindMessage, func(i *interaction) error {
		i.setMetadata(key, value)
		return nil
	})
}

func (e *Engine) WithMessageContents(h consumer.InteractionHandle, contentType, contents string) error {
	return e.updateKind(h, kindMessage, func(i *interaction) error {
		i.contents = body{contentType: contentType, content: contents, set: true}
		return nil
	})
}

func (e *Engine) Reify(h consumer.InteractionHandle) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, err := e.load(h, kindMessage)
	if err != nil {
		return "", err
	}
	if !i.contents.set {
		return "", errors.Errorf("message '%s' has no contents", i.description)
	}
	if !i.contents.isJSON() {
		return i.contents.content, nil
	}
	reified, _, err := reifyJSON(i.contents.content)
	if err != nil {
		return "", errors.Wrapf(err, "unable to reify message '%s'", i.description)
	}
	return reified, nil
}

func (e *Engine) load(h consumer.InteractionHandle, kind interactionKind) (*interaction, error) {
	i, ok := e.interactions[h.ID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHandle, "%s", h)
	}
	if i.kind != kind {
		return nil, errors.Wrapf(ErrWrongKind, "'%s' is a %s", i.description, i.kind)
	}
	return i, nil
}

func (e *Engine) update(h consumer.InteractionHandle, fn func(*interaction) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.interactions[h.ID]
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "%s", h)
	}
	return fn(i)
}

func (e *Engine) updateKind(h consumer.InteractionHandle, kind interactionKind, fn func(*interaction) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, err := e.load(h, kind)
	if err != nil {
		return err
	}
	return fn(i)
}

func (e *Engine) updatePact(h consumer.PactHandle, fn func(*pact) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pacts[h.ID]
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "%s", h)
	}
	return fn(p)
}
