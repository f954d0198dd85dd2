// Package search provides semantic similarity search over ingested chunks.
//
// The Searcher embeds a free-text query with the same model used at ingestion
// time, retrieves the most similar chunks from storage, and boosts results
// whose text contains every content word of the query verbatim.
package search
