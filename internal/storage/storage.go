// Package storage persists uploaded binaries and hands back opaque
// retrievable references.  Two interchangeable strategies exist: a
// local-filesystem store for development and a MinIO/S3-compatible
// object store for production.  The active strategy is chosen once at
// startup from configuration; call sites never branch on the backend.
//
// References are opaque to callers.  Remove inverts whichever
// addressing scheme the active backend's Store used, so a reference
// must only ever be passed back to the backend that issued it.
// Switching backends requires migrating existing references; the
// abstraction does not detect foreign references at runtime.
package storage

import (
	"context"
	"fmt"
)

// Backend selects a storage strategy.
type Backend string

const (
	// BackendLocal stores files under a directory on the local disk.
	BackendLocal Backend = "LOCAL"
	// BackendObjectStorage stores files in an S3-compatible bucket.
	BackendObjectStorage Backend = "OBJECT_STORAGE"
)

// Store is the capability-uniform contract both strategies satisfy.
type Store interface {
	// Store persists data under a collision-resistant name scoped
	// within folder and returns the reference to retrieve it.  It
	// must not overwrite an existing object under ordinary
	// operation.
	Store(ctx context.Context, data []byte, contentType, filename, folder string) (string, error)
	// Remove deletes the object a previous Store call on the same
	// backend returned the reference for.  Removing an already
	// absent object is a no-op.
	Remove(ctx context.Context, reference string) error
}

// ObjectConfig carries the credentials and addressing for the
// object-storage strategy.
type ObjectConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New constructs the strategy selected by backend.  uploadDir is only
// used by the local strategy, objCfg only by the object strategy.
func New(backend Backend, uploadDir string, objCfg ObjectConfig) (Store, error) {
	switch backend {
	case BackendLocal:
		return NewLocalStore(uploadDir)
	case BackendObjectStorage:
		return NewObjectStore(objCfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
