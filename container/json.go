package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// JSONContainer wraps one decoded JSON value. Numbers are kept as
// json.Number so their text survives unchanged.
type JSONContainer struct {
	value any
}

// NewJSON wraps an already decoded value.
func NewJSON(value any) *JSONContainer {
	return &JSONContainer{value: value}
}

// ParseJSON decodes a document and wraps its root.
func ParseJSON(r io.Reader) (*JSONContainer, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return NewJSON(value), nil
}

// LooksLikeJSON reports whether a payload starts with an object or array.
func LooksLikeJSON(page []byte) bool {
	trimmed := bytes.TrimLeft(page, " \t\r\n\ufeff")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func (j *JSONContainer) Kind() Kind { return KindJSON }

// Value returns the raw decoded value.
func (j *JSONContainer) Value() any { return j.value }

func (j *JSONContainer) Text(path string) string {
	v, ok := lookup(j.value, path)
	if !ok {
		return ""
	}
	return clean(leafText(v))
}

func (j *JSONContainer) Attr(path, name string) string {
	if path == "" {
		return j.Text(name)
	}
	return j.Text(path + "." + name)
}

func (j *JSONContainer) FindAll(selector string) []Container {
	if selector == "" {
		return nil
	}
	v, ok := lookup(j.value, selector)
	if !ok || v == nil {
		return nil
	}
	if items, ok := v.([]any); ok {
		out := make([]Container, 0, len(items))
		for _, item := range items {
			out = append(out, NewJSON(item))
		}
		return out
	}
	return []Container{NewJSON(v)}
}

func lookup(value any, path string) (any, bool) {
	if path == "" {
		return value, true
	}
	current := value
	for _, key := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// leafText renders scalars directly and walks containers in sorted key
// order so the same value always produces the same text.
func leafText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if text := leafText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if text := leafText(v[k]); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}
