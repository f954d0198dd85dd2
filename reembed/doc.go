// Package reembed regenerates chunk embeddings in bulk.
//
// Switching to a different embedding model invalidates every stored vector:
// similarity scores are only meaningful between vectors from the same model.
// The Reembedder walks all persisted chunks document by document, re-embeds
// their text with the configured embedder, and writes the vectors back in
// place without touching chunk boundaries or text.
package reembed
