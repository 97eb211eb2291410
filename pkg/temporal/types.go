package temporal

import (
	"fmt"

	"github.com/sanonone/epgm/internal/codec"
	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/model"
)

var (
	_ model.GraphHead = (*GraphHead)(nil)
	_ model.Vertex    = (*Vertex)(nil)
	_ model.Edge      = (*Edge)(nil)
	_ Versioned       = (*GraphHead)(nil)
	_ Versioned       = (*Vertex)(nil)
	_ Versioned       = (*Edge)(nil)
)

// GraphHead is an epgm.GraphHead with valid and transaction time.
type GraphHead struct {
	epgm.GraphHead
	Times
}

// Vertex is an epgm.Vertex with valid and transaction time.
type Vertex struct {
	epgm.Vertex
	Times
}

// Edge is an epgm.Edge with valid and transaction time.
type Edge struct {
	epgm.Edge
	Times
}

// The binary form of a temporal element is the epgm form followed by
// validFrom, validTo, txFrom and txTo as big-endian int64s.

func (t *Times) appendBinary(b []byte) []byte {
	b = codec.AppendInt64(b, t.valid.From)
	b = codec.AppendInt64(b, t.valid.To)
	b = codec.AppendInt64(b, t.tx.From)
	return codec.AppendInt64(b, t.tx.To)
}

func (t *Times) decodeFrom(r *codec.Reader) error {
	var v [4]int64
	for i := range v {
		x, err := r.Int64()
		if err != nil {
			return fmt.Errorf("time bounds: %w", err)
		}
		v[i] = x
	}
	valid, tx := Interval{From: v[0], To: v[1]}, Interval{From: v[2], To: v[3]}
	if valid.Validate() != nil || tx.Validate() != nil {
		return fmt.Errorf("%w: valid %s, tx %s", codec.ErrCorrupt, valid, tx)
	}
	t.valid, t.tx = valid, tx
	return nil
}

func (g *GraphHead) String() string {
	return fmt.Sprintf("%s@valid%s@tx%s", g.GraphHead.String(), g.valid, g.tx)
}

// AppendBinary implements encoding.BinaryAppender.
func (g *GraphHead) AppendBinary(b []byte) ([]byte, error) {
	b, err := g.GraphHead.AppendBinary(b)
	if err != nil {
		return nil, err
	}
	return g.Times.appendBinary(b), nil
}

func (g *GraphHead) MarshalBinary() ([]byte, error) { return g.AppendBinary(nil) }

func (g *GraphHead) DecodeFrom(r *codec.Reader) error {
	if err := g.GraphHead.DecodeFrom(r); err != nil {
		return err
	}
	return g.Times.decodeFrom(r)
}

func (g *GraphHead) UnmarshalBinary(b []byte) error {
	return decodeWhole(b, g.DecodeFrom)
}

func (v *Vertex) String() string {
	return fmt.Sprintf("%s@valid%s@tx%s", v.Vertex.String(), v.valid, v.tx)
}

// AppendBinary implements encoding.BinaryAppender.
func (v *Vertex) AppendBinary(b []byte) ([]byte, error) {
	b, err := v.Vertex.AppendBinary(b)
	if err != nil {
		return nil, err
	}
	return v.Times.appendBinary(b), nil
}

func (v *Vertex) MarshalBinary() ([]byte, error) { return v.AppendBinary(nil) }

func (v *Vertex) DecodeFrom(r *codec.Reader) error {
	if err := v.Vertex.DecodeFrom(r); err != nil {
		return err
	}
	return v.Times.decodeFrom(r)
}

func (v *Vertex) UnmarshalBinary(b []byte) error {
	return decodeWhole(b, v.DecodeFrom)
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s@valid%s@tx%s", e.Edge.String(), e.valid, e.tx)
}

// AppendBinary implements encoding.BinaryAppender.
func (e *Edge) AppendBinary(b []byte) ([]byte, error) {
	b, err := e.Edge.AppendBinary(b)
	if err != nil {
		return nil, err
	}
	return e.Times.appendBinary(b), nil
}

func (e *Edge) MarshalBinary() ([]byte, error) { return e.AppendBinary(nil) }

func (e *Edge) DecodeFrom(r *codec.Reader) error {
	if err := e.Edge.DecodeFrom(r); err != nil {
		return err
	}
	return e.Times.decodeFrom(r)
}

func (e *Edge) UnmarshalBinary(b []byte) error {
	return decodeWhole(b, e.DecodeFrom)
}

func decodeWhole(b []byte, decode func(*codec.Reader) error) error {
	r := codec.NewReader(b)
	if err := decode(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", codec.ErrCorrupt, r.Len())
	}
	return nil
}
