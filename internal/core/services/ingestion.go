package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driving"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// Ingestion defaults.
const (
	// DefaultEmbedBatchSize is how many chunks go to the embedding
	// service per request.
	DefaultEmbedBatchSize = 64

	// DefaultParallelism bounds concurrent document processing. PDF
	// extraction shells out per document; two in flight keeps the
	// embedding service the bottleneck without thrashing.
	DefaultParallelism = 2
)

// IngestionConfig tunes the ingestion pipeline.
type IngestionConfig struct {
	// EmbedBatchSize is chunks per embedding request (default 64).
	EmbedBatchSize int

	// Parallelism is the number of documents processed concurrently
	// (default 2).
	Parallelism int
}

// IngestionService reads source documents, chunks them, embeds the
// chunks and replaces the document's records in the vector index.
type IngestionService struct {
	readers  []driven.DocumentReader
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	cfg      IngestionConfig

	// docLocks serialises re-ingestion of the same document ID so a
	// watch-triggered run never interleaves delete and upsert with a
	// manual run for the same file.
	docLocksMu sync.Mutex
	docLocks   map[string]*sync.Mutex
}

// NewIngestionService creates the ingestion service.
func NewIngestionService(
	readers []driven.DocumentReader,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	cfg IngestionConfig,
) *IngestionService {
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = DefaultEmbedBatchSize
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	return &IngestionService{
		readers:  readers,
		pipeline: pipeline,
		embedder: embedder,
		index:    index,
		cfg:      cfg,
		docLocks: make(map[string]*sync.Mutex),
	}
}

// Ingest processes every supported file under dir. Failures are isolated
// per document and reported, never returned as the batch error.
func (s *IngestionService) Ingest(ctx context.Context, dir string) (*domain.IngestionReport, error) {
	paths, err := s.discover(dir)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Info("found %d supported documents in %s", len(paths), dir)

	report := &domain.IngestionReport{TotalDocuments: len(paths)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallelism)

	for _, path := range paths {
		g.Go(func() error {
			chunks, err := s.ingestOne(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("failed %s: %v", filepath.Base(path), err)
				report.Failures = append(report.Failures, domain.DocumentFailure{
					FileName: filepath.Base(path),
					Err:      err.Error(),
				})
				return nil
			}
			report.Processed++
			report.TotalChunks += chunks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// IngestFile processes a single document.
func (s *IngestionService) IngestFile(ctx context.Context, path string) (*domain.IngestionReport, error) {
	report := &domain.IngestionReport{TotalDocuments: 1}

	chunks, err := s.ingestOne(ctx, path)
	if err != nil {
		report.Failures = append(report.Failures, domain.DocumentFailure{
			FileName: filepath.Base(path),
			Err:      err.Error(),
		})
		return report, nil
	}
	report.Processed = 1
	report.TotalChunks = chunks
	return report, nil
}

// discover walks dir and returns paths any registered reader supports.
func (s *IngestionService) discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if s.readerFor(path) != nil {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	return paths, nil
}

// readerFor returns the first reader supporting the path, or nil.
func (s *IngestionService) readerFor(path string) driven.DocumentReader {
	for _, r := range s.readers {
		if r.Supports(path) {
			return r
		}
	}
	return nil
}

// ingestOne runs the full pipeline for one document and returns the
// number of chunks indexed.
func (s *IngestionService) ingestOne(ctx context.Context, path string) (int, error) {
	reader := s.readerFor(path)
	if reader == nil {
		return 0, fmt.Errorf("%w: no reader for %s", domain.ErrInvalidInput, filepath.Base(path))
	}

	doc, err := reader.Read(ctx, path)
	if err != nil {
		return 0, err
	}

	unlock := s.lockDocument(doc.ID)
	defer unlock()
	defer logger.Timing("ingest "+doc.FileName, time.Now())

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("%w: chunking %s: %v", domain.ErrDocumentProcessing, doc.FileName, err)
	}
	logger.Debug("chunked %s into %d chunks", doc.FileName, len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	records := make([]driven.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = driven.VectorRecord{
			ChunkID:     c.ID,
			DocumentID:  c.DocumentID,
			Vector:      c.Embedding,
			Content:     c.Content,
			FileName:    doc.FileName,
			Page:        c.Page,
			Index:       c.Index,
			ContentType: string(c.ContentType),
		}
	}

	// Replace, never accumulate: prior records for this document go
	// first so a re-ingested file leaves no stale chunks behind.
	if err := s.index.DeleteDocument(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("delete prior records for %s: %w", doc.FileName, err)
	}
	if err := s.index.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("index %s: %w", doc.FileName, err)
	}

	logger.Info("indexed %s (%d chunks)", doc.FileName, len(records))
	return len(records), nil
}

// embedChunks fills in chunk embeddings in batches.
func (s *IngestionService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += s.cfg.EmbedBatchSize {
		end := start + s.cfg.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = chunks[i].Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embed batch: got %d vectors for %d texts", len(vectors), len(texts))
		}
		for i := start; i < end; i++ {
			chunks[i].Embedding = vectors[i-start]
		}
	}
	return nil
}

// lockDocument acquires the per-document mutex and returns its unlock.
func (s *IngestionService) lockDocument(docID string) func() {
	s.docLocksMu.Lock()
	l, ok := s.docLocks[docID]
	if !ok {
		l = &sync.Mutex{}
		s.docLocks[docID] = l
	}
	s.docLocksMu.Unlock()

	l.Lock()
	return l.Unlock
}
