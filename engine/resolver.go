package engine

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/adrianN/marcql/marc"
	"github.com/cockroachdb/errors"
)

// DirTableResolver is the reference open_table collaborator: a table
// name resolves to "<name>.mrc" under Dir, opened as a plain
// file and wrapped in a bufio.Reader sized from BufferSize (falling
// back to bufio's own default when zero).
type DirTableResolver struct {
	Dir        string
	BufferSize int
}

// NewDirTableResolver builds a resolver rooted at cfg.TableDir, sizing
// its bufio.Reader from the same scratch-size knob as the batch reader
// so one Config value drives both.
func NewDirTableResolver(cfg Config) *DirTableResolver {
	return &DirTableResolver{Dir: cfg.TableDir, BufferSize: cfg.ScratchSize()}
}

// Open resolves table to "<Dir>/<table>.mrc" and opens it for
// sequential reading.
func (r *DirTableResolver) Open(table string) (*marc.Reader, error) {
	path := filepath.Join(r.Dir, table+".mrc")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "engine: opening table file %s", path)
	}
	size := r.BufferSize
	if size <= 0 {
		return marc.NewReader(bufio.NewReader(f)), nil
	}
	return marc.NewReader(bufio.NewReaderSize(f, size)), nil
}
