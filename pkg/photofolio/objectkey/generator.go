// Package objectkey generates storage names for uploaded blobs. Keys are
// flat generated names so the deletion handle stays derivable from the final
// path segment of a blob URL.
package objectkey

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Generator creates object keys for storage backends.
type Generator struct {
	// Prefix is prepended to every key, e.g. "images". Empty means no prefix.
	Prefix string
}

// NewGenerator returns a Generator with the default "images" prefix.
func NewGenerator() *Generator {
	return &Generator{Prefix: "images"}
}

// GenerateKey returns a unique storage name for one upload. The original
// filename contributes only its extension; the body of the name is a random
// UUID so repeated uploads to the same image key never collide.
func (g *Generator) GenerateKey(imageKey, originalName string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	if ext := sanitizeExt(originalName); ext != "" {
		name += ext
	}
	if g.Prefix == "" {
		return name
	}
	return g.Prefix + "/" + name
}

// sanitizeExt extracts a storage-safe lowercase extension from a client
// filename. Anything suspicious is dropped rather than escaped.
func sanitizeExt(originalName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(originalName, "\\", "/"))))
	if ext == "" || ext == "." {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	if len(ext) > 8 {
		return ""
	}
	return ext
}
