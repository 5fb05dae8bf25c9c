// Package archive re-exports the core archive abstractions and wires the
// backend drivers for stable internal imports.
package archive

import (
	"context"

	"broodcore/internal/archive/core"
	fsstore "broodcore/internal/infra/archive/fs"
	memorystore "broodcore/internal/infra/archive/memory"
	s3store "broodcore/internal/infra/archive/s3"
)

type (
	// Driver identifies an archive backend driver.
	Driver = core.Driver
	// Info describes archived entry metadata.
	Info = core.Info
	// Store is the interface for archive backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates a missing archive entry.
var ErrNotFound = core.ErrNotFound

// ErrExists indicates an attempt to overwrite an archived entry.
var ErrExists = core.ErrExists

// NewFilesystem returns a filesystem-backed archive rooted at root.
func NewFilesystem(root string) (Store, error) { return fsstore.New(root) }

// NewMemory returns an in-memory archive suitable for tests.
func NewMemory() Store { return memorystore.New() }

// S3Config re-exports the infra S3 configuration type.
type S3Config = s3store.Config

// NewS3 constructs an S3-backed archive from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) { return s3store.New(ctx, cfg) }

// NewMockS3ForTests exposes the in-memory S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return s3store.NewMockForTests() }
