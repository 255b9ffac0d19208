package marc_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/adrianN/marcql/internal/marctest"
	"github.com/adrianN/marcql/marc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_SingleBatch(t *testing.T) {
	file := marctest.TwoRecordFile()
	r := marc.NewReader(bytes.NewReader(file))
	scratch := make([]byte, len(file))

	batch, err := r.ReadBatch(scratch)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Len(t, batch.Records, 2)

	next, err := r.ReadBatch(scratch)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestReader_SplitAcrossBatches(t *testing.T) {
	rec1 := marctest.BibliographicRecord()
	rec2 := marctest.AuthorityRecord()
	file := marctest.BuildFile(rec1, rec2)
	r := marc.NewReader(bytes.NewReader(file))

	// A scratch buffer that fits rec1 whole but splits rec2's tail off.
	scratch := make([]byte, len(rec1)+len(rec2)/2)

	first, err := r.ReadBatch(scratch)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Len(t, first.Records, 1)

	second, err := r.ReadBatch(scratch)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Len(t, second.Records, 1)

	third, err := r.ReadBatch(scratch)
	require.NoError(t, err)
	assert.Nil(t, third)
}

func TestReader_EmptySource(t *testing.T) {
	r := marc.NewReader(bytes.NewReader(nil))
	batch, err := r.ReadBatch(make([]byte, 1024))
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestReader_TruncatedTailWithNoPriorRecords(t *testing.T) {
	rec := marctest.AuthorityRecord()
	truncated := rec[:len(rec)-5]
	r := marc.NewReader(bytes.NewReader(truncated))
	_, err := r.ReadBatch(make([]byte, len(rec)))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReader_RecordTooLargeForScratch(t *testing.T) {
	rec := marctest.AuthorityRecord()
	r := marc.NewReader(bytes.NewReader(rec))
	_, err := r.ReadBatch(make([]byte, len(rec)-1))
	require.Error(t, err)
	assert.ErrorIs(t, err, marc.ErrRecordTooLarge)
}

func TestReader_ScratchSmallerThanLeader(t *testing.T) {
	file := marctest.TwoRecordFile()
	r := marc.NewReader(bytes.NewReader(file))
	_, err := r.ReadBatch(make([]byte, 16))
	require.Error(t, err)
	assert.ErrorIs(t, err, marc.ErrRecordTooLarge)
}

func TestReader_BadFramingNonDigitLength(t *testing.T) {
	rec := marctest.AuthorityRecord()
	rec[0] = 'X'
	r := marc.NewReader(bytes.NewReader(rec))
	_, err := r.ReadBatch(make([]byte, len(rec)))
	require.Error(t, err)
	assert.ErrorIs(t, err, marc.ErrBadFraming)
}

// A length field that parses fine but declares fewer bytes than the
// leader itself is framing corruption, not a valid (tiny) record.
func TestReader_BadFramingSubLeaderLength(t *testing.T) {
	for _, declared := range []string{"00000", "00005", "00023"} {
		rec := marctest.AuthorityRecord()
		copy(rec[0:5], declared)
		r := marc.NewReader(bytes.NewReader(rec))
		_, err := r.ReadBatch(make([]byte, len(rec)))
		require.Error(t, err, "declared length %s", declared)
		assert.ErrorIs(t, err, marc.ErrBadFraming, "declared length %s", declared)
	}
}

// readAll drains the reader into a flat list of record byte copies.
func readAll(t *testing.T, src []byte, scratchSize int) [][]byte {
	t.Helper()
	r := marc.NewReader(bytes.NewReader(src))
	scratch := make([]byte, scratchSize)
	var out [][]byte
	for {
		batch, err := r.ReadBatch(scratch)
		require.NoError(t, err)
		if batch == nil {
			return out
		}
		for _, v := range batch.Records {
			out = append(out, append([]byte(nil), v.Bytes()...))
		}
	}
}

// Any scratch size at least as large as the longest record yields the
// same record sequence as reading the whole file at once.
func TestReader_FramingInvariantUnderScratchSize(t *testing.T) {
	file := marctest.BuildFile(
		marctest.BibliographicRecord(),
		marctest.AuthorityRecord(),
		marctest.AuthorityRecord(),
		marctest.BibliographicRecord(),
	)
	maxLen := len(marctest.BibliographicRecord())
	if l := len(marctest.AuthorityRecord()); l > maxLen {
		maxLen = l
	}

	want := readAll(t, file, len(file))
	require.Len(t, want, 4)
	for _, size := range []int{maxLen, maxLen + 1, maxLen + 7, len(file) - 1, len(file) + 100} {
		got := readAll(t, file, size)
		assert.Equal(t, want, got, "scratch size %d", size)
	}
}
