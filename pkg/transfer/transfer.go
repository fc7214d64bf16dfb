// Package transfer moves record sets between tiers in bounded chunks.
package transfer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
)

// DefaultChunkSize bounds the rows handed to a single append.
const DefaultChunkSize = 500000

// Appender is the part of the store a transfer writes to.
type Appender interface {
	Append(ctx context.Context, ref store.TableRef, rs *types.RecordSet) (int64, error)
}

// ChunkResult is the outcome of appending one chunk.
type ChunkResult struct {
	Index    int
	Offset   int
	Rows     int
	Appended int64
	Duration time.Duration
	Err      error
}

// Report collects the per-chunk outcomes of one transfer.
type Report struct {
	Table  store.TableRef
	Rows   int
	Chunks []ChunkResult
}

// Appended returns the total number of rows the store accepted.
func (r *Report) Appended() int64 {
	var n int64
	for _, c := range r.Chunks {
		n += c.Appended
	}
	return n
}

// Failed returns the number of chunks whose append failed.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Chunks {
		if c.Err != nil {
			n++
		}
	}
	return n
}

// Chunks splits rs into contiguous slices of at most size rows, in order.
// Sizes below 1 fall back to DefaultChunkSize.
func Chunks(rs *types.RecordSet, size int) []*types.RecordSet {
	if size < 1 {
		size = DefaultChunkSize
	}
	total := rs.Len()
	chunks := make([]*types.RecordSet, 0, (total+size-1)/size)
	for from := 0; from < total; from += size {
		to := from + size
		if to > total {
			to = total
		}
		chunks = append(chunks, rs.Slice(from, to))
	}
	return chunks
}

// Transfer appends record sets chunk by chunk. It is best-effort and not
// atomic: a failed chunk is logged and skipped, earlier chunks stay
// appended and later chunks are still attempted.
type Transfer struct {
	dst       Appender
	chunkSize int
	logger    *logrus.Entry
}

// New returns a transfer writing to dst.
func New(dst Appender, chunkSize int) *Transfer {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &Transfer{
		dst:       dst,
		chunkSize: chunkSize,
		logger:    logrus.WithField("component", "transfer"),
	}
}

// WithLogger replaces the transfer's logger.
func (t *Transfer) WithLogger(logger *logrus.Entry) *Transfer {
	t.logger = logger
	return t
}

// ChunkSize returns the effective chunk size.
func (t *Transfer) ChunkSize() int {
	return t.chunkSize
}

// Run appends rs to ref.
func (t *Transfer) Run(ctx context.Context, ref store.TableRef, rs *types.RecordSet) *Report {
	report := &Report{Table: ref, Rows: rs.Len()}
	logger := t.logger.WithField("table", ref.String())

	offset := 0
	for i, chunk := range Chunks(rs, t.chunkSize) {
		start := time.Now()
		n, err := t.dst.Append(ctx, ref, chunk)
		result := ChunkResult{
			Index:    i + 1,
			Offset:   offset,
			Rows:     chunk.Len(),
			Appended: n,
			Duration: time.Since(start),
			Err:      err,
		}
		report.Chunks = append(report.Chunks, result)
		offset += chunk.Len()

		entry := logger.WithFields(logrus.Fields{"chunk": result.Index, "rows": result.Rows})
		if err != nil {
			entry.WithError(err).Error("Chunk insert failed")
			continue
		}
		entry.WithField("duration", result.Duration).Info("Chunk inserted")
	}
	return report
}
