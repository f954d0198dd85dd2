// Package chunking implements semantic segmentation of documents.
//
// Documents are split into sentences, each sentence is embedded, and chunk
// boundaries are placed where the dissimilarity between adjacent sentence
// embeddings jumps above a configurable threshold policy. The assembler then
// groups sentences between consecutive breakpoints into chunks and computes a
// fresh embedding over each chunk's full text; sentence embeddings are only an
// intermediate signal for boundary detection, never the persisted vector.
package chunking
