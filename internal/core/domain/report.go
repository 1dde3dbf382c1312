package domain

// DocumentFailure records a single document that could not be ingested.
type DocumentFailure struct {
	// FileName is the document that failed.
	FileName string

	// Err is the failure description.
	Err string
}

// IngestionReport summarises one ingestion run. Per-document failures are
// isolated: they appear here and never abort the batch.
type IngestionReport struct {
	// TotalDocuments is the number of source files discovered.
	TotalDocuments int

	// Processed is the number of documents successfully indexed.
	Processed int

	// TotalChunks is the number of chunks upserted across all documents.
	TotalChunks int

	// Failures lists documents that could not be processed.
	Failures []DocumentFailure
}
