// Package storage abstracts where uploaded files live. The upload contract
// only needs "write bytes, get a public URL back", so any blob backend
// satisfies it; local disk and Cloudflare R2 are provided.
package storage

import "context"

type Storage interface {
	// Save writes the object under key and returns its public URL.
	Save(ctx context.Context, key string, contentType string, data []byte) (string, error)
}
