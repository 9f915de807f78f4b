// Package artifact implements C5, the content-addressed ArtifactStore
// that C4 externalizes oversized tool output into. Grounded on
// internal/context/storage/interfaces.go's capability-interface style
// and internal/context/storage/memory.go's mutex-guarded map backend.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"ctxcore/ctxerr"
)

var errNotFound = errors.New("artifact not found")

// Store is the capability interface every backend implements. Store is
// idempotent on the content hash: storing identical bytes twice under
// the same key is a no-op the second time (spec.md §4.4).
type Store interface {
	// Store writes content and returns its content-addressed key.
	Store(content []byte) (key string, err error)
	// Retrieve reads back the content for a previously stored key.
	Retrieve(key string) ([]byte, error)
	// Exists reports whether key is present without reading its value.
	Exists(key string) (bool, error)
}

// Key computes the content-addressed key for content: a hex-encoded
// SHA-256 digest. Using a collision-resistant, non-deprecated hash
// (rather than the teacher's MD5 precedent in GenerateProjectID) is
// deliberate here because the key is externally observable and must
// not be feasible to forge (spec.md §4.4, §11).
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func notFoundErr(key string) error {
	return &ctxerr.ArtifactStoreFailedError{Op: "retrieve", Key: key, Cause: errNotFound}
}
