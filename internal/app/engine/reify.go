package engine

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"unicode"

	"github.com/PaesslerAG/jsonpath"
	"github.com/form3tech-oss/pact-consumer/pkg/matchers"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type matchingRule struct {
	// path is the pact path of the rule, e.g. $.items[0]['first name']
	path string
	// query is the jsonpath expression addressing the same value
	query string
	rule  []byte
}

type matcher struct {
	kind   string
	value  gjson.Result
	params []matcherParam
}

type matcherParam struct {
	key string
	raw string
}

// parseMatcher recognises an integration matcher, i.e. an object carrying the
// "pact:matcher:type" discriminator.
func parseMatcher(v gjson.Result) (matcher, bool) {
	var m matcher
	if !v.IsObject() {
		return m, false
	}
	v.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case matchers.TypeKey:
			m.kind = value.String()
		case "value":
			m.value = value
		default:
			m.params = append(m.params, matcherParam{key: key.String(), raw: value.Raw})
		}
		return true
	})
	return m, m.kind != ""
}

// rule renders the matcher the way it is stored under matchingRules in a pact file.
func (m matcher) rule() ([]byte, error) {
	rule, err := sjson.SetBytes([]byte(`{}`), "match", m.kind)
	if err != nil {
		return nil, err
	}
	for _, p := range m.params {
		rule, err = sjson.SetRawBytes(rule, escapeKey(p.key), []byte(p.raw))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add '%s' to %s rule", p.key, m.kind)
		}
	}
	return rule, nil
}

// example returns the literal that replaces the matcher in a header or query value.
func (m matcher) example() string {
	if m.value.Type == gjson.String {
		return m.value.String()
	}
	if !m.value.Exists() {
		return ""
	}
	return m.value.Raw
}

type reifier struct {
	rules []matchingRule
}

// reifyJSON replaces every matcher in content with its example value and returns the
// matching rules found, keyed by their path in the reified document.
func reifyJSON(content string) (string, []matchingRule, error) {
	if !gjson.Valid(content) {
		return "", nil, errors.New("content is not valid JSON")
	}
	r := &reifier{}
	var buf bytes.Buffer
	if err := r.walk(&buf, gjson.Parse(content), "$", "$"); err != nil {
		return "", nil, err
	}
	return buf.String(), r.rules, nil
}

func (r *reifier) walk(buf *bytes.Buffer, v gjson.Result, path, query string) error {
	if m, ok := parseMatcher(v); ok {
		rule, err := m.rule()
		if err != nil {
			return err
		}
		r.rules = append(r.rules, matchingRule{path: path, query: query, rule: rule})
		return r.walk(buf, m.value, path, query)
	}

	var err error
	switch {
	case v.IsObject():
		buf.WriteByte('{')
		first := true
		v.ForEach(func(key, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			name := key.String()
			k, _ := json.Marshal(name)
			buf.Write(k)
			buf.WriteByte(':')
			childPath, childQuery := memberPath(path, query, name)
			err = r.walk(buf, value, childPath, childQuery)
			return err == nil
		})
		buf.WriteByte('}')
	case v.IsArray():
		buf.WriteByte('[')
		i := 0
		v.ForEach(func(_, value gjson.Result) bool {
			if i > 0 {
				buf.WriteByte(',')
			}
			index := "[" + strconv.Itoa(i) + "]"
			i++
			err = r.walk(buf, value, path+index, query+index)
			return err == nil
		})
		buf.WriteByte(']')
	case !v.Exists():
		buf.WriteString("null")
	default:
		buf.WriteString(v.Raw)
	}
	return err
}

func memberPath(path, query, name string) (string, string) {
	if identifier.MatchString(name) {
		return path + "." + name, query + "." + name
	}
	return path + "['" + name + "']", query + "[" + strconv.Quote(name) + "]"
}

// checkRules makes sure every rule addresses a value of the reified document.
func checkRules(reified string, rules []matchingRule) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(reified), &doc); err != nil {
		return errors.Wrap(err, "unable to parse reified content")
	}
	for _, rule := range rules {
		if _, err := jsonpath.Get(rule.query, doc); err != nil {
			return errors.Wrapf(err, "matching rule path %s does not resolve", rule.path)
		}
	}
	return nil
}

// reifyValue resolves a header or query value that may hold a serialized matcher.
func reifyValue(value string) (string, []byte, error) {
	if !gjson.Valid(value) {
		return value, nil, nil
	}
	m, ok := parseMatcher(gjson.Parse(value))
	if !ok {
		return value, nil, nil
	}
	rule, err := m.rule()
	if err != nil {
		return "", nil, err
	}
	return m.example(), rule, nil
}

// escapeKey makes key usable as a single sjson path component.
func escapeKey(key string) string {
	digits := key != ""
	var b bytes.Buffer
	for _, c := range key {
		if !unicode.IsDigit(c) {
			digits = false
		}
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	if digits {
		return ":" + b.String()
	}
	return b.String()
}
