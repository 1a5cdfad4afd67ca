// Package schema holds the declarative field rules shared by the API and
// published to the frontend, so both sides validate forms the same way.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "agency-cms/internal/shared/errors"
)

// FieldType names the accepted shape of a field
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeText       FieldType = "text"
	TypeEmail      FieldType = "email"
	TypeURL        FieldType = "url"
	TypeInt        FieldType = "int"
	TypeFloat      FieldType = "float"
	TypeBool       FieldType = "bool"
	TypeStringList FieldType = "string_list"
	TypeObject     FieldType = "object"
	TypeObjectList FieldType = "object_list"
)

// Field is one rule of a schema
type Field struct {
	Name      string      `json:"name"`
	Type      FieldType   `json:"type"`
	Required  bool        `json:"required,omitempty"`
	MinLength int         `json:"min_length,omitempty"`
	MaxLength int         `json:"max_length,omitempty"`
	Enum      []string    `json:"enum,omitempty"`
	Default   interface{} `json:"default,omitempty"`
}

// Schema is a named set of fields
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Validate coerces input against the schema and drops unknown keys.
// With partial set, only the fields present in input are checked and no defaults are applied.
func (s *Schema) Validate(input map[string]interface{}, partial bool) (map[string]interface{}, *apperrors.ValidationErrors) {
	out := make(map[string]interface{}, len(s.Fields))
	verrs := apperrors.NewValidationErrors()

	for _, f := range s.Fields {
		raw, present := input[f.Name]
		if present && raw == nil {
			present = false
		}

		if !present {
			if partial {
				continue
			}
			if f.Required {
				verrs.Add(f.Name, fmt.Sprintf("%s is required", f.Name), nil)
				continue
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		val, err := f.coerce(raw)
		if err != nil {
			verrs.Add(f.Name, err.Error(), raw)
			continue
		}
		if f.Required && isEmpty(val) {
			verrs.Add(f.Name, fmt.Sprintf("%s is required", f.Name), raw)
			continue
		}
		out[f.Name] = val
	}

	if verrs.HasErrors() {
		return nil, verrs
	}
	return out, nil
}

// Decode validates input and unmarshals the clean result into dst
func (s *Schema) Decode(input map[string]interface{}, partial bool, dst interface{}) (map[string]interface{}, error) {
	clean, verrs := s.Validate(input, partial)
	if verrs != nil {
		return nil, verrs.ToAppError()
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, apperrors.NewValidationError("invalid payload").WithCause(err)
	}
	return clean, nil
}

// Field looks up a field by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (f Field) coerce(raw interface{}) (interface{}, error) {
	switch f.Type {
	case TypeString, TypeText, TypeEmail, TypeURL:
		return f.coerceString(raw)
	case TypeInt:
		return coerceInt(f.Name, raw)
	case TypeFloat:
		return coerceFloat(f.Name, raw)
	case TypeBool:
		return coerceBool(f.Name, raw)
	case TypeStringList:
		return coerceStringList(f.Name, raw)
	case TypeObject:
		return coerceObject(f.Name, raw)
	case TypeObjectList:
		return coerceObjectList(f.Name, raw)
	}
	return nil, fmt.Errorf("%s has unsupported type %s", f.Name, f.Type)
}

func (f Field) coerceString(raw interface{}) (interface{}, error) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64, int, int64, bool:
		s = fmt.Sprint(v)
	default:
		return nil, fmt.Errorf("%s must be a string", f.Name)
	}
	s = strings.TrimSpace(s)

	n := utf8.RuneCountInString(s)
	if f.MinLength > 0 && n > 0 && n < f.MinLength {
		return nil, fmt.Errorf("%s must be at least %d characters", f.Name, f.MinLength)
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return nil, fmt.Errorf("%s must be at most %d characters", f.Name, f.MaxLength)
	}
	if s != "" && len(f.Enum) > 0 && !contains(f.Enum, s) {
		return nil, fmt.Errorf("%s must be one of %s", f.Name, strings.Join(f.Enum, ", "))
	}

	switch f.Type {
	case TypeEmail:
		if s == "" {
			return s, nil
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
			return nil, fmt.Errorf("%s must be a valid email address", f.Name)
		}
		return strings.ToLower(s), nil
	case TypeURL:
		if s == "" {
			return s, nil
		}
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%s must be a valid URL", f.Name)
		}
		if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%s must be an http(s) URL", f.Name)
		}
		if u.Scheme == "" && !strings.HasPrefix(s, "/") {
			return nil, fmt.Errorf("%s must be an absolute URL or path", f.Name)
		}
	}
	return s, nil
}

func coerceInt(name string, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%s must be a whole number", name)
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", name)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%s must be a whole number", name)
}

func coerceFloat(name string, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0.0, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", name)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%s must be a number", name)
}

func coerceBool(name string, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "on", "yes":
			return true, nil
		case "false", "0", "off", "no", "":
			return false, nil
		}
	case float64:
		return v != 0, nil
	}
	return nil, fmt.Errorf("%s must be true or false", name)
}

func coerceStringList(name string, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case []string:
		return cleanList(v), nil
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a list of strings", name)
			}
			list = append(list, s)
		}
		return cleanList(list), nil
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "[") {
			var list []string
			if err := json.Unmarshal([]byte(s), &list); err != nil {
				return nil, fmt.Errorf("%s must be a list of strings", name)
			}
			return cleanList(list), nil
		}
		return cleanList(strings.Split(s, ",")), nil
	}
	return nil, fmt.Errorf("%s must be a list of strings", name)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceObject(name string, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]interface{}{}, nil
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, fmt.Errorf("%s must be an object", name)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%s must be an object", name)
}

func coerceObjectList(name string, raw interface{}) (interface{}, error) {
	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case []map[string]interface{}:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []map[string]interface{}{}, nil
		}
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			return nil, fmt.Errorf("%s must be a list of objects", name)
		}
	default:
		return nil, fmt.Errorf("%s must be a list of objects", name)
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s must be a list of objects", name)
		}
		out = append(out, obj)
	}
	return out, nil
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return v == nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

var registry = map[string]*Schema{}

// Register adds s to the registry, replacing any schema with the same name
func Register(s *Schema) *Schema {
	registry[s.Name] = s
	return s
}

// Get returns a registered schema
func Get(name string) (*Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

// All returns the registered schemas sorted by name
func All() []*Schema {
	out := make([]*Schema, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
