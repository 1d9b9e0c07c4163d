package storage

import "io"

// BlobStore holds note file attachments. Keys are slash-separated paths
// scoped per user, e.g. "notes/<userID>/<noteID>/report.pdf".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
