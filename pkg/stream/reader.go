package stream

import (
	"bufio"
	"encoding"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/metrics"
	"github.com/sanonone/epgm/pkg/model"
	"github.com/sanonone/epgm/pkg/temporal"
)

// Reader reads frames one at a time and keeps track of the stream offset.
type Reader struct {
	r      *bufio.Reader
	offset int64
}

// NewReader creates a frame reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (sr *Reader) Offset() int64 { return sr.offset }

// Next returns the next frame. It returns io.EOF when the stream ends
// cleanly; any other error carries the offset of the broken frame.
func (sr *Reader) Next() (Frame, error) {
	start := sr.offset
	f, n, err := ReadFrame(sr.r)
	sr.offset += int64(n)
	if err == io.EOF {
		return Frame{}, io.EOF
	}
	if err != nil {
		slog.Warn("[STREAM] Corrupted frame", "offset", start, "error", err)
		return Frame{}, fmt.Errorf("stream: frame at offset %d: %w", start, err)
	}
	metrics.StreamFramesTotal.WithLabelValues(metrics.DirectionRead, f.Op.String()).Inc()
	return f, nil
}

// DecodeEPGM unmarshals f into a new plain element of the kind its op names.
func DecodeEPGM(f Frame) (model.Element, error) {
	switch f.Op {
	case OpGraphHead:
		return decodeAs(f, new(epgm.GraphHead))
	case OpVertex:
		return decodeAs(f, new(epgm.Vertex))
	case OpEdge:
		return decodeAs(f, new(epgm.Edge))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOp, f.Op)
}

// DecodeTemporal unmarshals f into a new temporal element of the kind its
// op names.
func DecodeTemporal(f Frame) (model.Element, error) {
	switch f.Op {
	case OpGraphHead:
		return decodeAs(f, new(temporal.GraphHead))
	case OpVertex:
		return decodeAs(f, new(temporal.Vertex))
	case OpEdge:
		return decodeAs(f, new(temporal.Edge))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOp, f.Op)
}

func decodeAs[T interface {
	model.Element
	encoding.BinaryUnmarshaler
}](f Frame, el T) (model.Element, error) {
	if err := el.UnmarshalBinary(f.Payload); err != nil {
		return nil, fmt.Errorf("stream: decode %s: %w", f.Op, err)
	}
	return el, nil
}

// Graph holds the elements of one stream, grouped by kind in stream order.
type Graph[G model.GraphHead, V model.Vertex, E model.Edge] struct {
	GraphHeads []G
	Vertices   []V
	Edges      []E
}

// ReadEPGM reads every frame of r as plain epgm elements.
func ReadEPGM(r io.Reader) (*Graph[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge], error) {
	return readGraph[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge](r, DecodeEPGM)
}

// ReadTemporal reads every frame of r as temporal elements.
func ReadTemporal(r io.Reader) (*Graph[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge], error) {
	return readGraph[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge](r, DecodeTemporal)
}

func readGraph[G model.GraphHead, V model.Vertex, E model.Edge](r io.Reader, decode func(Frame) (model.Element, error)) (*Graph[G, V, E], error) {
	sr := NewReader(r)
	g := &Graph[G, V, E]{}
	for {
		f, err := sr.Next()
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		if err != nil {
			return nil, err
		}
		el, err := decode(f)
		if err != nil {
			return nil, err
		}
		switch f.Op {
		case OpGraphHead:
			g.GraphHeads = append(g.GraphHeads, el.(G))
		case OpVertex:
			g.Vertices = append(g.Vertices, el.(V))
		case OpEdge:
			g.Edges = append(g.Edges, el.(E))
		}
	}
}
