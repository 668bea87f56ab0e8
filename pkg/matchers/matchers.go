// Package matchers holds the partial-match rules that can be used in place of literal
// values in headers, query parameters and bodies.
//
// A rule serializes to the integration JSON understood by the pact engine:
//
//	{"pact:matcher:type":"regex","value":"header","regex":"^header$"}
//
// The discriminator always comes first, followed by the example value and then the
// kind-specific keys in a fixed order, so equal rules always serialize identically.
package matchers

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/pkg/errors"
)

// TypeKey is the discriminator key of a serialized rule.
const TypeKey = "pact:matcher:type"

var ErrInvalidMatcher = errors.New("invalid matcher")

type Kind string

const (
	KindType     Kind = "type"
	KindRegex    Kind = "regex"
	KindEquality Kind = "equality"
	KindInteger  Kind = "integer"
	KindDecimal  Kind = "decimal"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindInclude  Kind = "include"
	KindNull     Kind = "null"
	KindDateTime Kind = "datetime"
	KindDate     Kind = "date"
	KindTime     Kind = "time"
)

type param struct {
	key   string
	value interface{}
}

// Matcher is an immutable rule value. The zero value is not a valid rule.
type Matcher struct {
	kind   Kind
	value  interface{}
	params []param
}

func (m Matcher) Kind() Kind {
	return m.kind
}

// Value returns the example value generated for the rule.
func (m Matcher) Value() interface{} {
	return m.value
}

func (m Matcher) MarshalJSON() ([]byte, error) {
	if m.kind == "" {
		return nil, errors.Wrap(ErrInvalidMatcher, "matcher has no kind")
	}

	var buf bytes.Buffer
	buf.WriteString(`{"` + TypeKey + `":`)
	if err := writeValue(&buf, string(m.kind)); err != nil {
		return nil, err
	}

	buf.WriteString(`,"value":`)
	if err := writeValue(&buf, m.value); err != nil {
		return nil, errors.Wrapf(err, "unable to serialize %s matcher value", m.kind)
	}

	for _, p := range m.params {
		buf.WriteString(`,"` + p.key + `":`)
		if err := writeValue(&buf, p.value); err != nil {
			return nil, errors.Wrapf(err, "unable to serialize %s matcher %s", m.kind, p.key)
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (m Matcher) String() string {
	s, err := Serialize(m)
	if err != nil {
		return "<invalid matcher>"
	}
	return s
}

// Serialize returns the canonical wire form of the rule.
func Serialize(m Matcher) (string, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(out.Bytes(), "\n"))
	return nil
}

// Like matches any value of the same type as the example.
func Like(example interface{}) Matcher {
	return Matcher{kind: KindType, value: example}
}

func Equality(example interface{}) Matcher {
	return Matcher{kind: KindEquality, value: example}
}

// Regex matches string values against pattern. The example has to satisfy the pattern.
func Regex(example, pattern string) (Matcher, error) {
	if pattern == "" {
		return Matcher{}, errors.Wrap(ErrInvalidMatcher, "regex matcher requires a pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "regex matcher pattern %q does not compile: %s", pattern, err)
	}
	if !re.MatchString(example) {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "regex matcher example %q does not match %q", example, pattern)
	}

	return Matcher{
		kind:   KindRegex,
		value:  example,
		params: []param{{key: "regex", value: pattern}},
	}, nil
}

func MustRegex(example, pattern string) Matcher {
	return must(Regex(example, pattern))
}

func Integer(example int64) Matcher {
	return Matcher{kind: KindInteger, value: example}
}

func Decimal(example float64) Matcher {
	return Matcher{kind: KindDecimal, value: example}
}

func Number(example float64) Matcher {
	return Matcher{kind: KindNumber, value: example}
}

func Boolean(example bool) Matcher {
	return Matcher{kind: KindBoolean, value: example}
}

// Include matches strings containing substring.
func Include(substring string) (Matcher, error) {
	if substring == "" {
		return Matcher{}, errors.Wrap(ErrInvalidMatcher, "include matcher requires a substring")
	}
	return Matcher{kind: KindInclude, value: substring}, nil
}

func Null() Matcher {
	return Matcher{kind: KindNull}
}

// DateTime matches values formatted with format, a java.time style pattern such as
// "yyyy-MM-dd'T'HH:mm:ss".
func DateTime(example, format string) (Matcher, error) {
	return formatted(KindDateTime, example, format)
}

func Date(example, format string) (Matcher, error) {
	return formatted(KindDate, example, format)
}

func Time(example, format string) (Matcher, error) {
	return formatted(KindTime, example, format)
}

func formatted(kind Kind, example, format string) (Matcher, error) {
	if format == "" {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "%s matcher requires a format", kind)
	}
	return Matcher{
		kind:   kind,
		value:  example,
		params: []param{{key: "format", value: format}},
	}, nil
}

// MinType matches an array with at least min elements, each like example.
func MinType(example interface{}, min int) (Matcher, error) {
	if min < 0 {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "min %d must not be negative", min)
	}
	return Matcher{
		kind:   KindType,
		value:  repeat(example, min),
		params: []param{{key: "min", value: min}},
	}, nil
}

// MaxType matches an array with at most max elements, each like example.
func MaxType(example interface{}, max int) (Matcher, error) {
	if max < 1 {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "max %d must be positive", max)
	}
	return Matcher{
		kind:   KindType,
		value:  repeat(example, 1),
		params: []param{{key: "max", value: max}},
	}, nil
}

func MinMaxType(example interface{}, min, max int) (Matcher, error) {
	if min < 0 {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "min %d must not be negative", min)
	}
	if max < 1 || min > max {
		return Matcher{}, errors.Wrapf(ErrInvalidMatcher, "max %d must be positive and not less than min %d", max, min)
	}
	return Matcher{
		kind:   KindType,
		value:  repeat(example, min),
		params: []param{{key: "min", value: min}, {key: "max", value: max}},
	}, nil
}

func repeat(example interface{}, n int) []interface{} {
	if n < 1 {
		n = 1
	}
	values := make([]interface{}, n)
	for i := range values {
		values[i] = example
	}
	return values
}

func must(m Matcher, err error) Matcher {
	if err != nil {
		panic(err)
	}
	return m
}
