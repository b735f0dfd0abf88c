package storage

import (
	"context"
)

// Storage is the object-storage collaborator used for profile and
// collection images: bytes in, public URL out.
type Storage interface {
	// UploadImage uploads raw image bytes under the given key and returns
	// the public URL
	UploadImage(ctx context.Context, data []byte, key string) (string, error)
	// UploadImageBase64 decodes a base64 payload (with or without a data-URI
	// prefix) and uploads it under the given key
	UploadImageBase64(ctx context.Context, encoded string, key string) (string, error)
}
