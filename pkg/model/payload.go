package model

import (
	"net/url"
	"sort"
)

// Payload is the flat key/text mapping posted to the job-execution endpoint.
type Payload map[string]string

// Field is a single payload entry.
type Field struct {
	Name  string
	Value string
}

// Keys returns the payload keys in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Sorted returns the entries ordered by key for deterministic output.
func (p Payload) Sorted() []Field {
	if len(p) == 0 {
		return nil
	}
	keys := p.Keys()
	result := make([]Field, 0, len(keys))
	for _, key := range keys {
		result = append(result, Field{Name: key, Value: p[key]})
	}
	return result
}

// Form converts the payload into url.Values.
func (p Payload) Form() url.Values {
	form := make(url.Values, len(p))
	for key, value := range p {
		form.Set(key, value)
	}
	return form
}

// Encode renders the payload as an application/x-www-form-urlencoded body,
// sorted by key.
func (p Payload) Encode() string {
	return p.Form().Encode()
}
