package id

import (
	"slices"
	"strings"

	"github.com/sanonone/epgm/internal/codec"
)

// Set is an unordered set of IDs. The zero value is an empty set ready to use;
// a nil *Set behaves as empty for every read operation.
type Set struct {
	ids map[ID]struct{}
}

// NewSet builds a set from zero or more existing IDs. Duplicates collapse.
func NewSet(ids ...ID) *Set {
	s := &Set{ids: make(map[ID]struct{}, len(ids))}
	for _, i := range ids {
		s.ids[i] = struct{}{}
	}
	return s
}

// Add inserts i. Adding an ID twice is a no-op.
func (s *Set) Add(i ID) {
	if s.ids == nil {
		s.ids = make(map[ID]struct{})
	}
	s.ids[i] = struct{}{}
}

// AddAll inserts every ID of o.
func (s *Set) AddAll(o *Set) {
	if o == nil {
		return
	}
	for i := range o.ids {
		s.Add(i)
	}
}

// Remove deletes i if present.
func (s *Set) Remove(i ID) {
	if s == nil {
		return
	}
	delete(s.ids, i)
}

// Contains reports whether i is a member.
func (s *Set) Contains(i ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[i]
	return ok
}

// ContainsAny reports whether s and o share at least one ID.
func (s *Set) ContainsAny(o *Set) bool {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	if small == nil {
		return false
	}
	for i := range small.ids {
		if large.Contains(i) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every ID of o is in s.
func (s *Set) ContainsAll(o *Set) bool {
	if o == nil {
		return true
	}
	for i := range o.ids {
		if !s.Contains(i) {
			return false
		}
	}
	return true
}

// Union returns a new set holding the IDs of both s and o.
func (s *Set) Union(o *Set) *Set {
	out := s.Clone()
	out.AddAll(o)
	return out
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the members in ascending order.
func (s *Set) IDs() []ID {
	if s == nil {
		return nil
	}
	out := make([]ID, 0, len(s.ids))
	for i := range s.ids {
		out = append(out, i)
	}
	slices.SortFunc(out, ID.Compare)
	return out
}

// Equal reports whether both sets hold exactly the same IDs.
func (s *Set) Equal(o *Set) bool {
	return s.Len() == o.Len() && s.ContainsAll(o)
}

// Clone returns an independent copy. Cloning a nil set yields an empty set.
func (s *Set) Clone() *Set {
	out := &Set{ids: make(map[ID]struct{}, s.Len())}
	if s != nil {
		for i := range s.ids {
			out.ids[i] = struct{}{}
		}
	}
	return out
}

func (s *Set) String() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for n, i := range ids {
		parts[n] = i.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// AppendBinary appends the set as a uvarint count followed by the sorted IDs.
func (s *Set) AppendBinary(b []byte) []byte {
	ids := s.IDs()
	b = codec.AppendUvarint(b, uint64(len(ids)))
	for _, i := range ids {
		b = i.AppendBinary(b)
	}
	return b
}

// ReadSet decodes a set written by AppendBinary.
func ReadSet(r *codec.Reader) (*Set, error) {
	n, err := r.Count(Size)
	if err != nil {
		return nil, err
	}
	out := &Set{ids: make(map[ID]struct{}, n)}
	for k := 0; k < n; k++ {
		i, err := ReadID(r)
		if err != nil {
			return nil, err
		}
		out.ids[i] = struct{}{}
	}
	return out, nil
}

// DecodeSet decodes a set from b, which must contain nothing else.
func DecodeSet(b []byte) (*Set, error) {
	r := codec.NewReader(b)
	s, err := ReadSet(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, codec.ErrCorrupt
	}
	return s, nil
}
