package consumer

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const mediaTypeJSON = "application/json"

type NamingPolicy int

const (
	// ExactNames keeps member names as encoding/json produces them.
	ExactNames NamingPolicy = iota
	CamelCase
	SnakeCase
)

func (p NamingPolicy) String() string {
	switch p {
	case ExactNames:
		return "exact"
	case CamelCase:
		return "camel"
	case SnakeCase:
		return "snake"
	}
	return "unknown"
}

// EnvDecode lets envconfig read the policy from its name.
func (p *NamingPolicy) EnvDecode(val string) error {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "exact":
		*p = ExactNames
	case "camel", "camelcase":
		*p = CamelCase
	case "snake", "snakecase", "snake_case":
		*p = SnakeCase
	default:
		return errors.Wrapf(ErrInvalidArgument, "unknown naming policy %q", val)
	}
	return nil
}

func (p NamingPolicy) rename(name string) string {
	switch p {
	case CamelCase:
		return toCamelCase(name)
	case SnakeCase:
		return toSnakeCase(name)
	}
	return name
}

func toCamelCase(s string) string {
	r := []rune(s)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return s
	}
	for i := range r {
		if i == 1 && !unicode.IsUpper(r[i]) {
			break
		}
		// keep the capital that starts the next word, e.g. URLValue -> urlValue
		if i > 0 && i+1 < len(r) && !unicode.IsUpper(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func toSnakeCase(s string) string {
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if unicode.IsUpper(c) {
			if i > 0 {
				prev := r[i-1]
				nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}

// JSONSettings configures how bodies and message contents are serialized, and how reified
// messages are bound back onto the consumer's types.
type JSONSettings struct {
	Naming NamingPolicy `env:"PACT_JSON_NAMING,default=exact"`
	// Strict rejects unknown members and missing members that are neither pointers nor
	// tagged omitempty.
	Strict     bool `env:"PACT_JSON_STRICT,default=true"`
	EscapeHTML bool `env:"PACT_JSON_ESCAPE_HTML,default=false"`
}

func DefaultJSONSettings() *JSONSettings {
	return &JSONSettings{
		Naming: ExactNames,
		Strict: true,
	}
}

func (s *JSONSettings) Marshal(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(s.EscapeHTML)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "unable to serialize JSON")
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if s.Naming == ExactNames {
		return string(out), nil
	}

	var renamed bytes.Buffer
	s.Naming.renameKeys(&renamed, gjson.ParseBytes(out))
	return renamed.String(), nil
}

func (p NamingPolicy) renameKeys(buf *bytes.Buffer, v gjson.Result) {
	switch {
	case v.IsObject():
		buf.WriteByte('{')
		first := true
		v.ForEach(func(key, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeKey(buf, p.rename(key.String()))
			p.renameKeys(buf, value)
			return true
		})
		buf.WriteByte('}')
	case v.IsArray():
		buf.WriteByte('[')
		first := true
		v.ForEach(func(_, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			p.renameKeys(buf, value)
			return true
		})
		buf.WriteByte(']')
	default:
		buf.WriteString(v.Raw)
	}
}

func writeKey(buf *bytes.Buffer, key string) {
	b, _ := json.Marshal(key)
	buf.Write(b)
	buf.WriteByte(':')
}

// Unmarshal binds data onto v, which must be a non-nil pointer.
func (s *JSONSettings) Unmarshal(data string, v interface{}) error {
	if !gjson.Valid(data) {
		return errors.New("content is not valid JSON")
	}

	b := binder{naming: s.Naming, strict: s.Strict}
	var bound bytes.Buffer
	if err := b.bind(&bound, gjson.Parse(data), typeOf(v), "$"); err != nil {
		return err
	}

	dec := json.NewDecoder(&bound)
	if s.Strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "unable to deserialize JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
