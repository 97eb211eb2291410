package properties

import (
	"fmt"
	"strings"

	"github.com/tidwall/btree"

	"github.com/sanonone/epgm/internal/codec"
)

// Properties maps unique string keys to Values. Keys are kept ordered, so
// iteration, Keys and the binary form are deterministic.
//
// The zero value is an empty map ready to use. A nil *Properties behaves as
// empty for every read operation.
type Properties struct {
	m *btree.Map[string, Value]
}

// New returns an empty property map.
func New() *Properties {
	return &Properties{m: new(btree.Map[string, Value])}
}

// FromMap builds a property map from plain Go values. Every value must be
// accepted by FromAny.
func FromMap(in map[string]any) (*Properties, error) {
	p := New()
	for k, x := range in {
		if err := p.SetAny(k, x); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Properties) tree() *btree.Map[string, Value] {
	if p.m == nil {
		p.m = new(btree.Map[string, Value])
	}
	return p.m
}

// Set stores v under key, replacing any previous value.
func (p *Properties) Set(key string, v Value) {
	p.tree().Set(key, v)
}

// SetAny converts x with FromAny and stores it under key.
func (p *Properties) SetAny(key string, x any) error {
	v, err := FromAny(x)
	if err != nil {
		return fmt.Errorf("property %q: %w", key, err)
	}
	p.Set(key, v)
	return nil
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (Value, bool) {
	if p == nil || p.m == nil {
		return Value{}, false
	}
	return p.m.Get(key)
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (p *Properties) Delete(key string) bool {
	if p == nil || p.m == nil {
		return false
	}
	_, ok := p.m.Delete(key)
	return ok
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Keys returns the keys in ascending order.
func (p *Properties) Keys() []string {
	if p.Len() == 0 {
		return nil
	}
	return p.m.Keys()
}

// Range calls fn for every entry in key order until fn returns false.
func (p *Properties) Range(fn func(key string, v Value) bool) {
	if p.Len() == 0 {
		return
	}
	p.m.Scan(fn)
}

// Equal reports whether both maps hold the same keys with equal values.
func (p *Properties) Equal(o *Properties) bool {
	if p.Len() != o.Len() {
		return false
	}
	equal := true
	p.Range(func(k string, v Value) bool {
		ov, ok := o.Get(k)
		equal = ok && v.Equal(ov)
		return equal
	})
	return equal
}

// Clone returns an independent copy. Cloning nil yields an empty map.
func (p *Properties) Clone() *Properties {
	if p.Len() == 0 {
		return New()
	}
	return &Properties{m: p.m.Copy()}
}

// ToMap converts the map into plain Go values.
func (p *Properties) ToMap() map[string]any {
	out := make(map[string]any, p.Len())
	p.Range(func(k string, v Value) bool {
		out[k] = v.Any()
		return true
	})
	return out
}

func (p *Properties) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	p.Range(func(k string, v Value) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v.String())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// AppendBinary appends a uvarint entry count followed by key/value pairs in
// key order.
func (p *Properties) AppendBinary(b []byte) ([]byte, error) {
	b = codec.AppendUvarint(b, uint64(p.Len()))
	var err error
	p.Range(func(k string, v Value) bool {
		b = codec.AppendString(b, k)
		b, err = v.AppendBinary(b)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ReadProperties decodes a map written by AppendBinary.
func ReadProperties(r *codec.Reader) (*Properties, error) {
	// smallest entry: empty key (1 byte) + Null tag (1 byte)
	n, err := r.Count(2)
	if err != nil {
		return nil, err
	}
	p := New()
	for i := 0; i < n; i++ {
		k, err := r.String()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(r)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		p.m.Set(k, v)
	}
	return p, nil
}

// DecodeProperties decodes a map from b, which must contain nothing else.
func DecodeProperties(b []byte) (*Properties, error) {
	r := codec.NewReader(b)
	p, err := ReadProperties(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after properties", ErrCorruptEncoding, r.Len())
	}
	return p, nil
}
