// Package readers contains document readers that turn source files into
// per-page text ready for chunking and indexing.
package readers
