package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted record types. Written by hand rather than
// generated: the record shapes are small and stable, and the encoding must
// stay compatible with what is already on disk. Field order is the struct
// declaration order. Timestamps are encoded as Unix microseconds.

// DocumentIDMUS is the MUS serializer for DocumentID.
var DocumentIDMUS = documentIDMUS{}

type documentIDMUS struct{}

func (s documentIDMUS) Marshal(v DocumentID, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s documentIDMUS) Unmarshal(bs []byte) (v DocumentID, n int, err error) {
	str, n, err := ord.String.Unmarshal(bs)
	return DocumentID(str), n, err
}

func (s documentIDMUS) Size(v DocumentID) (size int) {
	return ord.String.Size(string(v))
}

func (s documentIDMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

// TaskIDMUS is the MUS serializer for TaskID.
var TaskIDMUS = taskIDMUS{}

type taskIDMUS struct{}

func (s taskIDMUS) Marshal(v TaskID, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s taskIDMUS) Unmarshal(bs []byte) (v TaskID, n int, err error) {
	str, n, err := ord.String.Unmarshal(bs)
	return TaskID(str), n, err
}

func (s taskIDMUS) Size(v TaskID) (size int) {
	return ord.String.Size(string(v))
}

func (s taskIDMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

// DocumentMUS is the MUS serializer for Document.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = DocumentIDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Filename, bs[n:])
	n += ord.String.Marshal(v.FileType, bs[n:])
	n += ord.String.Marshal(v.MimeType, bs[n:])
	n += varint.Int64.Marshal(v.FileSize, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += ord.String.Marshal(v.RawTextRef, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += varint.Int.Marshal(v.EntityCount, bs[n:])
	n += varint.Int.Marshal(v.RelationCount, bs[n:])
	n += ord.String.Marshal(v.Error, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.ProcessedAt, bs[n:])
	return n
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = DocumentIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Filename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MimeType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileSize, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status string
	status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = DocumentStatus(status)
	v.RawTextRef, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EntityCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RelationCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ProcessedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = DocumentIDMUS.Size(v.Id)
	size += ord.String.Size(v.Filename)
	size += ord.String.Size(v.FileType)
	size += ord.String.Size(v.MimeType)
	size += varint.Int64.Size(v.FileSize)
	size += ord.String.Size(string(v.Status))
	size += ord.String.Size(v.RawTextRef)
	size += varint.Int.Size(v.ChunkCount)
	size += varint.Int.Size(v.EntityCount)
	size += varint.Int.Size(v.RelationCount)
	size += ord.String.Size(v.Error)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.ProcessedAt)
	return size
}

// TaskMUS is the MUS serializer for Task.
var TaskMUS = taskMUS{}

type taskMUS struct{}

func (s taskMUS) Marshal(v Task, bs []byte) (n int) {
	n = TaskIDMUS.Marshal(v.Id, bs)
	n += DocumentIDMUS.Marshal(v.DocumentId, bs[n:])
	n += ord.String.Marshal(string(v.Stage), bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += varint.Int.Marshal(v.Progress, bs[n:])
	n += ord.String.Marshal(v.Message, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (s taskMUS) Unmarshal(bs []byte) (v Task, n int, err error) {
	v.Id, n, err = TaskIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentId, n1, err = DocumentIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var stage string
	stage, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Stage = Stage(stage)
	var status string
	status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = TaskStatus(status)
	v.Progress, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Message, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s taskMUS) Size(v Task) (size int) {
	size = TaskIDMUS.Size(v.Id)
	size += DocumentIDMUS.Size(v.DocumentId)
	size += ord.String.Size(string(v.Stage))
	size += ord.String.Size(string(v.Status))
	size += varint.Int.Size(v.Progress)
	size += ord.String.Size(v.Message)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	return size
}
