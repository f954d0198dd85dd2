// Package extract turns source documents into plain text for ingestion.
//
// It provides extension-based dispatch between a docconv-backed extractor for
// binary formats (PDF, DOCX, RTF, HTML) and a plain reader for text formats,
// plus source enumeration that expands a file or directory path into the list
// of document refs an ingestion job will fan out over.
package extract
