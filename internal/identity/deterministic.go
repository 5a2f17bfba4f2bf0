// Package identity derives stable identifiers from human chosen session keys.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// DefaultSessionKey is used when no session key is configured.
const DefaultSessionKey = "default"

// UUID derives a deterministic UUID from key using go-hashid. Callers prefix
// keys by kind so different kinds never collide.
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

// NormalizeSessionKey trims and lowercases key, falling back to the default.
func NormalizeSessionKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return DefaultSessionKey
	}
	return key
}

// SessionUUID is the persistence key of an editor session.
func SessionUUID(key string) uuid.UUID {
	return UUID("go-recipes:session:" + NormalizeSessionKey(key))
}

// DocumentUUID is the primary key of the stored recipe for a persistence key.
func DocumentUUID(storeKey string) uuid.UUID {
	return UUID("go-recipes:document:" + strings.TrimSpace(storeKey))
}
