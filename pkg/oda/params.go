package oda

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of query parameters. The zero value is empty and ready to use.
type Params struct {
	items []Param
}

// NewParams builds Params from alternating key/value pairs. A trailing key without value is ignored.
func NewParams(kv ...string) Params {
	var p Params
	for i := 0; i+1 < len(kv); i += 2 {
		p.Add(kv[i], kv[i+1])
	}
	return p
}

// Add appends a parameter, keeping any earlier value for the same key.
// Copies of p never observe the new parameter.
func (p *Params) Add(key, value string) *Params {
	n := len(p.items)
	p.items = append(p.items[:n:n], Param{Key: key, Value: value})
	return p
}

// Set replaces the first parameter named key in place, or appends it.
// Later duplicates of key are dropped.
func (p *Params) Set(key, value string) *Params {
	out := make([]Param, 0, len(p.items)+1)
	replaced := false
	for _, it := range p.items {
		if it.Key != key {
			out = append(out, it)
			continue
		}
		if !replaced {
			out = append(out, Param{Key: key, Value: value})
			replaced = true
		}
	}
	p.items = out
	if !replaced {
		p.items = append(p.items, Param{Key: key, Value: value})
	}
	return p
}

// Page selects a result page.
func (p *Params) Page(n int) *Params {
	return p.Set("page", strconv.Itoa(n))
}

// Get returns the first value stored for key.
func (p Params) Get(key string) (string, bool) {
	for _, it := range p.items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return "", false
}

// Len reports the number of parameters.
func (p Params) Len() int { return len(p.items) }

// All returns a copy of the parameters in insertion order.
func (p Params) All() []Param {
	return append([]Param(nil), p.items...)
}

// Encode renders the parameters as key1=value1&key2=value2 in insertion order.
// Empty Params encode to "".
func (p Params) Encode() string {
	if len(p.items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, it := range p.items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(it.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(it.Value))
	}
	return b.String()
}

// Suffix returns "?" followed by the encoded parameters, or "" when there are none.
func (p Params) Suffix() string {
	if q := p.Encode(); q != "" {
		return "?" + q
	}
	return ""
}

// ParseParams parses a key1=value1&key2=value2 string into Params, keeping order.
func ParseParams(raw string) (Params, error) {
	var p Params
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return p, nil
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return Params{}, fmt.Errorf("parse param %q: %w", pair, err)
		}
		if key == "" {
			return Params{}, fmt.Errorf("parse param %q: empty key", pair)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return Params{}, fmt.Errorf("parse param %q: %w", pair, err)
		}
		p.Add(key, val)
	}
	return p, nil
}
