package logcat

import (
	"container/heap"
	"context"
	"io"
)

// MergedSource interleaves several sources into one stream ordered by
// timestamp, oldest first. Records with equal timestamps keep source order.
type MergedSource struct {
	sources []Source
	heap    recordHeap
	pending []int
	started bool
}

// NewMergedSource creates a Source that merges sources by timestamp.
// Each input is assumed to be in timestamp order already.
func NewMergedSource(sources ...Source) *MergedSource {
	return &MergedSource{sources: sources}
}

// Next returns the oldest record across all sources.
// A *LineError from one input is passed through; calling Next again resumes.
func (m *MergedSource) Next(ctx context.Context) (*Record, error) {
	if !m.started {
		m.started = true
		for i := range m.sources {
			m.pending = append(m.pending, i)
		}
	}

	for len(m.pending) > 0 {
		idx := m.pending[0]
		rec, err := m.sources[idx].Next(ctx)
		if err != nil && err != io.EOF {
			if !IsLineError(err) {
				m.pending = m.pending[1:]
			}
			return nil, err
		}
		m.pending = m.pending[1:]
		if rec != nil {
			heap.Push(&m.heap, &heapItem{rec: rec, sourceIdx: idx})
		}
	}

	if m.heap.Len() == 0 {
		return nil, io.EOF
	}

	item := heap.Pop(&m.heap).(*heapItem)
	m.pending = append(m.pending, item.sourceIdx)
	return item.rec, nil
}

// Stats sums the stats of every input that reports them.
func (m *MergedSource) Stats() Stats {
	var total Stats
	for _, src := range m.sources {
		if s, ok := src.(interface{ Stats() Stats }); ok {
			total.Add(s.Stats())
		}
	}
	return total
}

// Close closes every input and returns the first error.
func (m *MergedSource) Close() error {
	var firstErr error
	for _, src := range m.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type heapItem struct {
	rec       *Record
	sourceIdx int
}

type recordHeap []*heapItem

func (h recordHeap) Len() int { return len(h) }

func (h recordHeap) Less(i, j int) bool {
	if h[i].rec.Timestamp.Equal(h[j].rec.Timestamp) {
		return h[i].sourceIdx < h[j].sourceIdx
	}
	return h[i].rec.Timestamp.Before(h[j].rec.Timestamp)
}

func (h recordHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x any) {
	*h = append(*h, x.(*heapItem))
}

func (h *recordHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
