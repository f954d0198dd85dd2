package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/mburaksayici/legal-rag/core"
)

// Key prefixes for different data types
const (
	jobRecordPrefix    = "ingjob"
	jobCreatedAtPrefix = "ingjobd"
	taskRecordPrefix   = "doctask"
	chunkRecordPrefix  = "chkrec"
)

// makeJobKey generates a key for a job record by ID.
func makeJobKey(jobID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", jobRecordPrefix, jobID))
}

// makeJobCreatedAtKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:jobID
func makeJobCreatedAtKey(createdAt time.Time, jobID string) []byte {
	prefix := jobCreatedAtPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 + len(jobID) // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], jobID)
	return buf
}

// makeTaskKey generates a composite key for a task record.
// Format: prefix:jobID:taskID
func makeTaskKey(jobID, taskID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", taskRecordPrefix, jobID, taskID))
}

// makeTaskJobPrefix generates the scan prefix for all tasks of a job.
func makeTaskJobPrefix(jobID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", taskRecordPrefix, jobID))
}

// makeChunkKey generates a composite key for a chunk record.
// Format: prefix:docRefHash:ordinal, with both fixed-width BigEndian so
// chunks of one document are contiguous and ordinal-ordered in key space.
func makeChunkKey(documentRef string, ordinal int) []byte {
	buf := makeChunkDocPrefix(documentRef)
	offset := len(buf)
	buf = append(buf, make([]byte, 8)...)
	binary.BigEndian.PutUint64(buf[offset:], uint64(ordinal))
	return buf
}

// makeChunkDocPrefix generates the scan prefix for all chunks of a document.
func makeChunkDocPrefix(documentRef string) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for document ref hash
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(documentRef)))
	return buf
}
