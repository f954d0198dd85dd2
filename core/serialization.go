package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. Field order is part of the
// on-disk format; append new fields, never reorder.
var (
	IDMUS           = idMUS{}
	IngestionJobMUS = ingestionJobMUS{}
	DocumentTaskMUS = documentTaskMUS{}
	ChunkMUS        = chunkMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// Timestamps persist as microseconds since the Unix epoch. The zero time
// round-trips: it encodes to a fixed negative offset and decodes back to a
// time for which IsZero still holds.

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

// Vectors persist as a varint length prefix followed by raw float32 values.

func marshalVector(v []float32, bs []byte) int {
	n := varint.Int.Marshal(len(v), bs)
	for _, val := range v {
		n += raw.Float32.Marshal(val, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) ([]float32, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, fmt.Errorf("negative vector length %d", length)
	}
	if length == 0 {
		return nil, n, nil
	}
	v := make([]float32, length)
	for i := 0; i < length; i++ {
		val, n1, err := raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v[i] = val
	}
	return v, n, nil
}

func sizeVector(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, val := range v {
		size += raw.Float32.Size(val)
	}
	return size
}

type ingestionJobMUS struct{}

func (ingestionJobMUS) Marshal(job IngestionJob, bs []byte) int {
	n := ord.String.Marshal(job.ID, bs)
	n += ord.String.Marshal(job.Source, bs[n:])
	n += ord.String.Marshal(string(job.Status), bs[n:])
	n += varint.Int.Marshal(job.TotalDocuments, bs[n:])
	n += varint.Int.Marshal(job.SuccessCount, bs[n:])
	n += varint.Int.Marshal(job.FailureCount, bs[n:])
	n += ord.Bool.Marshal(job.CancelRequested, bs[n:])
	n += marshalTime(job.CreatedAt, bs[n:])
	n += marshalTime(job.CompletedAt, bs[n:])
	return n
}

func (ingestionJobMUS) Unmarshal(bs []byte) (job IngestionJob, n int, err error) {
	var n1 int
	if job.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if job.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	job.Status = JobStatus(status)
	if job.TotalDocuments, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	if job.SuccessCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	if job.FailureCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	if job.CancelRequested, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	if job.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	if job.CompletedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return job, n + n1, err
	}
	n += n1
	return job, n, nil
}

func (ingestionJobMUS) Size(job IngestionJob) int {
	return ord.String.Size(job.ID) +
		ord.String.Size(job.Source) +
		ord.String.Size(string(job.Status)) +
		varint.Int.Size(job.TotalDocuments) +
		varint.Int.Size(job.SuccessCount) +
		varint.Int.Size(job.FailureCount) +
		ord.Bool.Size(job.CancelRequested) +
		sizeTime(job.CreatedAt) +
		sizeTime(job.CompletedAt)
}

type documentTaskMUS struct{}

func (documentTaskMUS) Marshal(task DocumentTask, bs []byte) int {
	n := ord.String.Marshal(task.ID, bs)
	n += ord.String.Marshal(task.JobID, bs[n:])
	n += ord.String.Marshal(task.DocumentRef, bs[n:])
	n += ord.String.Marshal(string(task.Status), bs[n:])
	n += varint.Int.Marshal(task.AttemptCount, bs[n:])
	n += ord.String.Marshal(task.LastError, bs[n:])
	n += varint.Int.Marshal(task.ChunkCount, bs[n:])
	n += varint.Int.Marshal(task.FallbackCount, bs[n:])
	n += marshalTime(task.CreatedAt, bs[n:])
	n += marshalTime(task.CompletedAt, bs[n:])
	return n
}

func (documentTaskMUS) Unmarshal(bs []byte) (task DocumentTask, n int, err error) {
	var n1 int
	if task.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if task.JobID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	if task.DocumentRef, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	task.Status = TaskStatus(status)
	if task.AttemptCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	if task.LastError, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	if task.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	if task.FallbackCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	if task.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	if task.CompletedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return task, n + n1, err
	}
	n += n1
	return task, n, nil
}

func (documentTaskMUS) Size(task DocumentTask) int {
	return ord.String.Size(task.ID) +
		ord.String.Size(task.JobID) +
		ord.String.Size(task.DocumentRef) +
		ord.String.Size(string(task.Status)) +
		varint.Int.Size(task.AttemptCount) +
		ord.String.Size(task.LastError) +
		varint.Int.Size(task.ChunkCount) +
		varint.Int.Size(task.FallbackCount) +
		sizeTime(task.CreatedAt) +
		sizeTime(task.CompletedAt)
}

type chunkMUS struct{}

func (chunkMUS) Marshal(chunk Chunk, bs []byte) int {
	n := IDMUS.Marshal(chunk.ID, bs)
	n += ord.String.Marshal(chunk.DocumentRef, bs[n:])
	n += varint.Int.Marshal(chunk.Ordinal, bs[n:])
	n += ord.String.Marshal(chunk.Text, bs[n:])
	n += marshalVector(chunk.Embedding, bs[n:])
	n += varint.Int.Marshal(chunk.StartSentence, bs[n:])
	n += varint.Int.Marshal(chunk.EndSentence, bs[n:])
	n += marshalTime(chunk.InsertedAt, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (chunk Chunk, n int, err error) {
	var n1 int
	if chunk.ID, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if chunk.DocumentRef, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	if chunk.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	if chunk.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	if chunk.Embedding, n1, err = unmarshalVector(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	if chunk.StartSentence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	if chunk.EndSentence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	if chunk.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return chunk, n + n1, err
	}
	n += n1
	return chunk, n, nil
}

func (chunkMUS) Size(chunk Chunk) int {
	return IDMUS.Size(chunk.ID) +
		ord.String.Size(chunk.DocumentRef) +
		varint.Int.Size(chunk.Ordinal) +
		ord.String.Size(chunk.Text) +
		sizeVector(chunk.Embedding) +
		varint.Int.Size(chunk.StartSentence) +
		varint.Int.Size(chunk.EndSentence) +
		sizeTime(chunk.InsertedAt)
}
