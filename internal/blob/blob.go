// Package blob stores uploaded binary objects and hands back stable URLs.
package blob

import "io"

// Store is the blob storage abstraction consumed by the upload flow.
// Implementations return a durable URL per stored path; the core records
// the URL and path but does not manage the object lifecycle further.
type Store interface {
	// Save writes content to path (relative to the store root) and
	// returns the number of bytes written.
	Save(path string, content io.Reader) (int64, error)
	// Delete removes the object at path.
	Delete(path string) error
	// URL returns the public URL for the object at path.
	URL(path string) string
}
