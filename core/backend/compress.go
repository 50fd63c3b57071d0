package backend

import (
	"github.com/gorilla/handlers"
)

// handleCompression compresses response bodies with gzip or deflate
// when the client sends a matching Accept-Encoding header.
func (b *Backend) handleCompression() {
	b.router.Use(handlers.CompressHandler)
}
