package engine

import (
	"io"

	"github.com/adrianN/marcql/query/project"
	"github.com/cockroachdb/errors"
)

// WriterSink re-serializes each projected record back to ISO 2709
// bytes (via project.OwnedRecord.Marshal) and writes it to W. This is a
// reference sink beyond the minimal "receives each projected record"
// contract; output formatting is otherwise left entirely to the
// collaborator.
type WriterSink struct {
	W io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{W: w}
}

func (s *WriterSink) Emit(rec *project.OwnedRecord) error {
	b, err := rec.Marshal()
	if err != nil {
		return errors.Wrap(err, "engine: marshaling projected record")
	}
	_, err = s.W.Write(b)
	return err
}

// CountingSink discards every record but keeps a running count, used by
// the CLI's --count mode and by tests that only care how many records
// a query produced.
type CountingSink struct {
	Count int
}

func (s *CountingSink) Emit(rec *project.OwnedRecord) error {
	s.Count++
	return nil
}
