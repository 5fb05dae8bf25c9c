// Package core defines the abstractions shared by event archive backends.
package core

import (
	"context"
	"errors"
	"time"
)

// Driver identifies a concrete archive backend implementation.
type Driver string

const (
	// DriverFilesystem archives to a local directory (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 archives to an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps archived entries in process memory (tests).
	DriverMemory Driver = "memory"
)

// Info describes an archived entry.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// Store is an append-only archive of small JSON payloads. Entries are
// immutable once written: Put fails if the key already exists.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (Info, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns entries whose key has the provided prefix, ordered by key
	// ascending.
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// ErrNotFound is returned by Get when no entry exists at the key.
var ErrNotFound = errors.New("archive: entry not found")

// ErrExists is returned by Put when the key is already occupied.
var ErrExists = errors.New("archive: entry already exists")
