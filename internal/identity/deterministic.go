package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-sitegen:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys must be namespaced per entity kind to avoid cross-kind collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func BlogPostUUID(slug string) uuid.UUID {
	return UUID(namespace + "blog:" + strings.ToLower(strings.TrimSpace(slug)))
}

func ServiceUUID(slug string) uuid.UUID {
	return UUID(namespace + "service:" + strings.ToLower(strings.TrimSpace(slug)))
}

// GalleryImageUUID keys on the filename as stored on disk; filenames are case sensitive.
func GalleryImageUUID(filename string) uuid.UUID {
	return UUID(namespace + "gallery:" + strings.TrimSpace(filename))
}

func PageUUID(outputPath string) uuid.UUID {
	return UUID(namespace + "page:" + strings.Trim(strings.TrimSpace(outputPath), "/"))
}
