package consumer

import (
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

type structField struct {
	name     string
	typ      reflect.Type
	optional bool
}

// binder walks a JSON document alongside the Go type it is bound to. It maps renamed
// member names back onto field names and, when strict, reports missing required fields.
type binder struct {
	naming NamingPolicy
	strict bool
}

func typeOf(v interface{}) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}

func (b binder) bind(buf *bytes.Buffer, v gjson.Result, t reflect.Type, path string) error {
	t = indirect(t)

	switch {
	case t != nil && v.IsObject() && t.Kind() == reflect.Struct && !isUnmarshaler(t):
		return b.bindStruct(buf, v, t, path)
	case t != nil && v.IsObject() && t.Kind() == reflect.Map:
		return b.bindEach(buf, v, '{', '}', func(key, value gjson.Result) error {
			writeKey(buf, key.String())
			return b.bind(buf, value, t.Elem(), path+"."+key.String())
		})
	case t != nil && v.IsArray() && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array):
		i := 0
		return b.bindEach(buf, v, '[', ']', func(_, value gjson.Result) error {
			p := path + "[" + strconv.Itoa(i) + "]"
			i++
			return b.bind(buf, value, t.Elem(), p)
		})
	}

	buf.WriteString(v.Raw)
	return nil
}

func (b binder) bindStruct(buf *bytes.Buffer, v gjson.Result, t reflect.Type, path string) error {
	fields := structFields(t)
	seen := make([]bool, len(fields))

	err := b.bindEach(buf, v, '{', '}', func(key, value gjson.Result) error {
		name := key.String()
		var ft reflect.Type
		if i, ok := b.lookup(fields, name); ok {
			if b.strict {
				if seen[i] {
					return errors.Errorf("duplicate member '%s' for field '%s' at %s", name, fields[i].name, path)
				}
				if value.Type == gjson.Null && !fields[i].optional && !nullable(fields[i].typ) {
					return errors.Errorf("null value for required field '%s' at %s", fields[i].name, path)
				}
			}
			seen[i] = true
			name = fields[i].name
			ft = fields[i].typ
		} else if b.strict {
			return errors.Errorf("unknown field %q at %s", name, path)
		}
		writeKey(buf, name)
		return b.bind(buf, value, ft, path+"."+name)
	})
	if err != nil {
		return err
	}

	if !b.strict {
		return nil
	}
	for i, f := range fields {
		if !seen[i] && !f.optional {
			return errors.Errorf("missing required field '%s' at %s", f.name, path)
		}
	}
	return nil
}

func (b binder) bindEach(buf *bytes.Buffer, v gjson.Result, open, end byte, fn func(key, value gjson.Result) error) error {
	var err error
	first := true
	buf.WriteByte(open)
	v.ForEach(func(key, value gjson.Result) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		err = fn(key, value)
		return err == nil
	})
	buf.WriteByte(end)
	return err
}

func (b binder) lookup(fields []structField, name string) (int, bool) {
	for i, f := range fields {
		if f.name == name {
			return i, true
		}
	}
	if b.naming != ExactNames {
		for i, f := range fields {
			if b.naming.rename(f.name) == name {
				return i, true
			}
		}
	}
	if b.strict {
		return 0, false
	}
	// encoding/json matches member names case-insensitively
	for i, f := range fields {
		if strings.EqualFold(f.name, name) {
			return i, true
		}
	}
	return 0, false
}

func structFields(t reflect.Type) []structField {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			if et := indirect(f.Type); et.Kind() == reflect.Struct {
				fields = append(fields, structFields(et)...)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields = append(fields, structField{
			name:     name,
			typ:      f.Type,
			optional: strings.Contains(opts, "omitempty") || f.Type.Kind() == reflect.Pointer,
		})
	}
	return fields
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	}
	return false
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isUnmarshaler(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(jsonUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

