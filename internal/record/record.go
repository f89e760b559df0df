// Package record stores graph records in a snappy-framed JSON-lines file,
// the hand-off format for an external trainer.
//
// The first line is a Header naming the class list and the model settings
// the records were built for. Every following line is one graph.Record.
package record

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/ironsheep/superpixel-graph/internal/config"
	"github.com/ironsheep/superpixel-graph/internal/graph"
)

// Format identifies the file layout.
const Format = "superpixel-graph/v1"

// ErrFormat is returned for files that are not record files.
var ErrFormat = errors.New("record: unrecognized format")

// Header describes the records that follow it.
type Header struct {
	Format       string              `json:"format"`
	Classes      []string            `json:"classes"`
	Segmentation config.Segmentation `json:"segmentation"`
	Model        config.Model        `json:"model"`
}

// NewHeader builds a header from cfg. Class names are written in their
// canonical spelling so that Classes[Y] names every record's label.
func NewHeader(cfg config.Config) Header {
	classes := make([]string, len(cfg.Classes))
	for i, name := range cfg.Classes {
		if c, err := graph.ParseClass(name); err == nil {
			name = c.String()
		}
		classes[i] = name
	}
	return Header{
		Format:       Format,
		Classes:      classes,
		Segmentation: cfg.Segmentation,
		Model:        cfg.Model,
	}
}

// Writer appends records to a compressed stream.
type Writer struct {
	zw    *snappy.Writer
	enc   *json.Encoder
	count int
	raw   countingWriter
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// NewWriter writes h to w and returns a Writer for the records. Close must
// be called to flush the stream; it does not close w.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.Format == "" {
		h.Format = Format
	}
	zw := snappy.NewBufferedWriter(w)
	rw := &Writer{zw: zw}
	rw.raw.w = zw
	rw.enc = json.NewEncoder(&rw.raw)
	if err := rw.enc.Encode(h); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return rw, nil
}

// Write appends one record.
func (w *Writer) Write(rec *graph.Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record %d: %w", w.count, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// UncompressedBytes returns the JSON bytes written so far, header
// included.
func (w *Writer) UncompressedBytes() int64 { return w.raw.n }

// Close flushes buffered data.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// Reader reads records back.
type Reader struct {
	dec    *json.Decoder
	header Header
}

// NewReader reads and checks the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	dec := json.NewDecoder(bufio.NewReader(snappy.NewReader(r)))
	var h Header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if h.Format != Format {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrFormat, h.Format, Format)
	}
	return &Reader{dec: dec, header: h}, nil
}

// Header returns the file header.
func (r *Reader) Header() Header { return r.header }

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (*graph.Record, error) {
	var rec graph.Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	return &rec, nil
}

// ReadAll returns every remaining record.
func (r *Reader) ReadAll() ([]*graph.Record, error) {
	var out []*graph.Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// WriteFile writes recs to path, replacing any existing file.
func WriteFile(path string, h Header, recs []*graph.Record) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	w, err := NewWriter(f, h)
	if err != nil {
		f.Close()
		return 0, err
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			f.Close()
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return 0, err
	}
	return w.UncompressedBytes(), f.Close()
}

// ReadFile reads a whole record file.
func ReadFile(path string) (Header, []*graph.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return Header{}, nil, err
	}
	recs, err := r.ReadAll()
	return r.Header(), recs, err
}
