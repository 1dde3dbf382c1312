package domain

// RetrievedChunk is a single vector query hit. Ephemeral: produced per
// query, never persisted.
type RetrievedChunk struct {
	// Chunk is the matched chunk with its citation metadata.
	Chunk Chunk

	// FileName is the source document's file name, carried from the index
	// so citations never require a second lookup.
	FileName string

	// Score is the cosine similarity to the query (higher is closer).
	Score float64

	// Rank is the 0-based position in the result list.
	Rank int
}

// Source is a citation surfaced alongside an answer. Sources are derived
// from the chunks actually placed in the completion context, never parsed
// out of the model's free text.
type Source struct {
	// FileName is the source document's file name.
	FileName string `json:"file_name"`

	// Page is the 1-based page number the cited chunk came from.
	Page int `json:"page_number"`

	// Snippet is a short excerpt of the cited chunk.
	Snippet string `json:"content_snippet"`

	// Score is the retrieval similarity of the cited chunk.
	Score float64 `json:"score"`
}

// Answer is the result of a retrieval-augmented question.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the chunks included in the context window.
	Sources []Source

	// Insufficient is true when retrieval confidence was below threshold
	// and the completion service was never consulted.
	Insufficient bool
}

// SnippetLength bounds the excerpt attached to a Source.
const SnippetLength = 200

// MakeSnippet truncates chunk content for citation display.
func MakeSnippet(content string) string {
	if len(content) <= SnippetLength {
		return content
	}
	return content[:SnippetLength] + "..."
}
