// Package memory provides an in-memory vector index used in tests and as
// a fallback when no data directory is configured.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type record struct {
	driven.VectorRecord
	seq int
}

// Index is an in-memory implementation of driven.VectorIndex.
// It mirrors the SQLite index's ordering semantics: descending cosine
// similarity with ties broken by insertion order.
type Index struct {
	mu      sync.RWMutex
	records map[string]*record
	nextSeq int
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{
		records: make(map[string]*record),
	}
}

// Upsert stores records, overwriting any existing record with the same
// chunk ID. Overwrites keep their original insertion order.
func (i *Index) Upsert(_ context.Context, records []driven.VectorRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, r := range records {
		if existing, ok := i.records[r.ChunkID]; ok {
			existing.VectorRecord = r
			continue
		}
		i.records[r.ChunkID] = &record{VectorRecord: r, seq: i.nextSeq}
		i.nextSeq++
	}
	return nil
}

// Query returns the k nearest records by cosine similarity.
func (i *Index) Query(_ context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	ordered := make([]*record, 0, len(i.records))
	for _, r := range i.records {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(a, b int) bool { return ordered[a].seq < ordered[b].seq })

	hits := make([]driven.VectorHit, 0, len(ordered))
	for _, r := range ordered {
		hits = append(hits, driven.VectorHit{
			ChunkID:     r.ChunkID,
			DocumentID:  r.DocumentID,
			Content:     r.Content,
			FileName:    r.FileName,
			Page:        r.Page,
			ContentType: r.ContentType,
			Similarity:  cosineSimilarity(vector, r.Vector),
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// DeleteDocument removes all records belonging to a document.
func (i *Index) DeleteDocument(_ context.Context, documentID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for id, r := range i.records {
		if r.DocumentID == documentID {
			delete(i.records, id)
		}
	}
	return nil
}

// Count returns the number of stored records.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records), nil
}

// Stats reports per-document chunk counts.
func (i *Index) Stats(_ context.Context) ([]driven.DocumentStats, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	byDoc := make(map[string]*driven.DocumentStats)
	for _, r := range i.records {
		s, ok := byDoc[r.DocumentID]
		if !ok {
			s = &driven.DocumentStats{DocumentID: r.DocumentID, FileName: r.FileName}
			byDoc[r.DocumentID] = s
		}
		s.ChunkCount++
	}

	stats := make([]driven.DocumentStats, 0, len(byDoc))
	for _, s := range byDoc {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(a, b int) bool { return stats[a].FileName < stats[b].FileName })
	return stats, nil
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
