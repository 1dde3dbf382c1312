package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func pageDoc(text string) *domain.Document {
	return &domain.Document{
		ID:       domain.NewDocumentID("test.pdf"),
		FileName: "test.pdf",
		Pages:    []domain.PageText{{Number: 1, Text: text}},
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := pageDoc("")

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := pageDoc("This is a small piece of content.")

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}

	if chunks[0].DocumentID != doc.ID {
		t.Errorf("expected DocumentID '%s', got '%s'", doc.ID, chunks[0].DocumentID)
	}
	if chunks[0].Content != doc.Pages[0].Text {
		t.Error("expected content to match page text")
	}
	if chunks[0].Page != 1 {
		t.Errorf("expected page 1, got %d", chunks[0].Page)
	}
}

func TestProcessor_Process_MaxSizeAndOverlap(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := pageDoc(strings.Repeat("x", 250)) // no boundaries: hard cuts

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c.Content) > 100 {
			t.Errorf("chunk %d exceeds max size: %d", i, len(c.Content))
		}
	}

	// Constant overlap between consecutive chunks.
	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].EndOffset - chunks[i].StartOffset
		if overlap != 20 {
			t.Errorf("chunk %d: expected overlap 20, got %d", i, overlap)
		}
	}
}

func TestProcessor_Process_RoundTripCoverage(t *testing.T) {
	p := New(WithChunkSize(80), WithOverlap(15))
	text := "Corridor partitions shall have a fire rating of 90 minutes. " +
		"All doors in rated partitions shall carry labels. " +
		"Refer to the door schedule on sheet A-601 for marks and sizes. " +
		"Glazing in rated assemblies shall be fire-protective."
	doc := pageDoc(text)

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Concatenating each chunk's non-overlap span reconstructs the page.
	var sb strings.Builder
	for i, c := range chunks {
		if i == len(chunks)-1 {
			sb.WriteString(c.Content)
			break
		}
		unique := chunks[i+1].StartOffset - c.StartOffset
		sb.WriteString(c.Content[:unique])
	}
	if sb.String() != text {
		t.Errorf("round-trip failed:\nwant %q\ngot  %q", text, sb.String())
	}
}

func TestProcessor_Process_StableIDs(t *testing.T) {
	p := New(WithChunkSize(80), WithOverlap(15))
	doc := pageDoc(strings.Repeat("stable content. ", 20))

	first, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d: IDs differ across runs", i)
		}
	}

	seen := make(map[string]bool)
	for _, c := range first {
		if seen[c.ID] {
			t.Errorf("duplicate chunk ID: %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestProcessor_Process_MultiplePages(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(10))
	doc := &domain.Document{
		ID: "doc",
		Pages: []domain.PageText{
			{Number: 1, Text: "Page one content about partitions."},
			{Number: 3, Text: "Page three content about finishes."},
		},
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Page != 1 || chunks[1].Page != 3 {
		t.Errorf("page numbers not preserved: %d, %d", chunks[0].Page, chunks[1].Page)
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.ContentType
	}{
		{
			name: "door schedule header",
			text: "MARK  TYPE  SIZE  RATING\nD-101  A  900x2100  90 MIN\n",
			want: domain.ContentTable,
		},
		{
			name: "dimension pair",
			text: "openings sized 900 x 2100 throughout",
			want: domain.ContentTable,
		},
		{
			name: "pipe separated",
			text: "| mark | rating |",
			want: domain.ContentTable,
		},
		{
			name: "narrative",
			text: "the contractor shall verify all conditions on site prior to commencing work",
			want: domain.ContentNarrative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectContentType(tt.text); got != tt.want {
				t.Errorf("DetectContentType() = %v, want %v", got, tt.want)
			}
		})
	}
}
