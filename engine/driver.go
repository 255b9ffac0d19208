package engine

import (
	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/compile"
	"github.com/adrianN/marcql/query/filter"
	"github.com/adrianN/marcql/query/parser"
	"github.com/adrianN/marcql/query/project"
	"github.com/cockroachdb/errors"
)

// TableResolver opens the byte source named by a compiled query's table
// name. This is the "open_table" collaborator left injectable;
// DirTableResolver is the reference implementation.
type TableResolver interface {
	Open(table string) (*marc.Reader, error)
}

// Sink receives each projected record. Sinks must not retain references
// past return.
type Sink interface {
	Emit(rec *project.OwnedRecord) error
}

// Driver composes the read/filter/project/sink loop: compile once, open
// the table, then fill->partition->project->sink over reused scratch
// space.
type Driver struct {
	Resolver TableResolver
	Scratch  []byte
	Metrics  *Metrics     // optional; nil disables instrumentation
	Progress ProgressFunc // optional; nil keeps the loop silent
}

// New builds a Driver. scratchSize sizes the reused scratch buffer;
// callers typically pass Config.ScratchSize().
func New(resolver TableResolver, scratchSize int) *Driver {
	return &Driver{Resolver: resolver, Scratch: make([]byte, scratchSize)}
}

// Run compiles query, opens its table through d.Resolver, and drives
// the read/filter/project/sink loop to completion or to the first
// error. Compile errors surface before any I/O; reader errors
// terminate the query.
func (d *Driver) Run(query string, sink Sink) error {
	q, err := Compile(query)
	if err != nil {
		return err
	}
	return d.RunCompiled(q, sink)
}

// RunCompiled drives a query already compiled by Compile, skipping a
// redundant parse when the caller wants to inspect or log the compiled
// tree first (the CLI compiles up front so --explain can print the tree
// without running it).
func (d *Driver) RunCompiled(q *compile.Query, sink Sink) error {
	reader, err := d.Resolver.Open(q.Table)
	if err != nil {
		return errors.Wrapf(err, "engine: opening table %q", q.Table)
	}

	for {
		batch, err := reader.ReadBatch(d.Scratch)
		if err != nil {
			return errors.Wrapf(err, "engine: reading table %q", q.Table)
		}
		if batch == nil {
			return nil
		}
		if d.Metrics != nil {
			d.Metrics.ObserveBatch(len(batch.Records))
		}

		views := batch.Records
		trueEnd := len(views)
		if q.Filter != nil {
			trueEnd, _, err = filter.Partition(q.Filter, views)
			if err != nil {
				return errors.Wrapf(err, "engine: evaluating filter over table %q", q.Table)
			}
		}
		if d.Metrics != nil {
			d.Metrics.ObserveRejected(len(views) - trueEnd)
		}

		owned, err := q.Projection.Apply(views[:trueEnd])
		if err != nil {
			return errors.Wrapf(err, "engine: projecting records from table %q", q.Table)
		}
		for _, rec := range owned {
			if err := sink.Emit(rec); err != nil {
				return errors.Wrap(err, "engine: sink")
			}
		}
		if d.Metrics != nil {
			d.Metrics.ObserveEmitted(len(owned))
		}
		if d.Progress != nil {
			d.Progress(BatchStats{
				Table:   q.Table,
				Records: len(views),
				Matched: trueEnd,
				Emitted: len(owned),
			})
		}
	}
}

// Compile parses and compiles query text, so a caller (the CLI's
// --explain flag, primarily) can inspect the compiled tree before
// running it.
func Compile(query string) (*compile.Query, error) {
	tree, err := parser.Parse(query)
	if err != nil {
		return nil, err
	}
	return compile.Compile(tree)
}
