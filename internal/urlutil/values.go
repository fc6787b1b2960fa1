package urlutil

import (
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Values is an insertion-ordered name→value mapping used for query
// parameters, POST bodies and scraped form fields. Setting an existing name
// replaces its value but keeps its original position.
//
// The zero value is not usable; use NewValues. A nil *Values is treated as
// empty by every read method.
type Values struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewValues builds Values from alternating name, value pairs. A trailing
// name without a value gets "".
func NewValues(pairs ...string) *Values {
	v := &Values{m: orderedmap.New[string, string]()}
	for i := 0; i < len(pairs); i += 2 {
		val := ""
		if i+1 < len(pairs) {
			val = pairs[i+1]
		}
		v.Set(pairs[i], val)
	}
	return v
}

// Set stores value under name (last write wins).
func (v *Values) Set(name, value string) {
	v.m.Set(name, value)
}

// Get returns the value for name.
func (v *Values) Get(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	return v.m.Get(name)
}

// Delete removes name if present.
func (v *Values) Delete(name string) {
	if v == nil {
		return
	}
	v.m.Delete(name)
}

func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return v.m.Len()
}

// Keys returns names in insertion order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	keys := make([]string, 0, v.m.Len())
	for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every pair in insertion order.
func (v *Values) Each(fn func(name, value string)) {
	if v == nil {
		return
	}
	for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns an independent copy.
func (v *Values) Clone() *Values {
	out := NewValues()
	v.Each(out.Set)
	return out
}

// Map flattens to a plain map; ordering is lost.
func (v *Values) Map() map[string]string {
	out := make(map[string]string, v.Len())
	v.Each(func(name, value string) { out[name] = value })
	return out
}

// Encode renders "name=value" pairs joined by '&' in insertion order, using
// form encoding (spaces become '+').
func (v *Values) Encode() string {
	var b strings.Builder
	v.Each(func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	})
	return b.String()
}

// MarshalJSON keeps insertion order in the JSON object.
func (v *Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return v.m.MarshalJSON()
}
