package consumer

import (
	"fmt"

	"github.com/pkg/errors"
)

// PactHandle correlates calls to one pact document held by the engine.
type PactHandle struct {
	ID uint32
}

func (h PactHandle) String() string {
	return fmt.Sprintf("pact#%d", h.ID)
}

// InteractionHandle correlates calls to one HTTP interaction or message held by the engine.
// It is only meaningful for the lifetime of the pact it was allocated under.
type InteractionHandle struct {
	ID uint32
}

func (h InteractionHandle) String() string {
	return fmt.Sprintf("interaction#%d", h.ID)
}

// Part selects the side of an HTTP interaction a header or body is added to.
type Part int

const (
	PartRequest Part = iota
	PartResponse
)

func (p Part) String() string {
	switch p {
	case PartRequest:
		return "request"
	case PartResponse:
		return "response"
	}
	return fmt.Sprintf("part(%d)", int(p))
}

func ParsePart(s string) (Part, error) {
	switch s {
	case "request":
		return PartRequest, nil
	case "response":
		return PartResponse, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown interaction part %q", s)
}

type Specification string

const (
	SpecificationV2 Specification = "V2"
	SpecificationV3 Specification = "V3"
	SpecificationV4 Specification = "V4"
)

// Version returns the value written to metadata.pactSpecification.version.
func (s Specification) Version() (string, error) {
	switch s {
	case SpecificationV2:
		return "2.0.0", nil
	case SpecificationV3:
		return "3.0.0", nil
	case SpecificationV4:
		return "4.0", nil
	}
	return "", errors.Wrapf(ErrInvalidArgument, "unknown pact specification %q", string(s))
}
