package entity

import (
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a 24 hex char identifier: 4 bytes of unix seconds followed by
// 8 random bytes taken from a v4 UUID.
func NewID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	r := uuid.New()
	copy(b[4:], r[:8])
	return hex.EncodeToString(b[:])
}

// NormalizeID returns the canonical lowercase form of id. Ids compare as
// plain strings in every store, so all inbound ids pass through here.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// IsValidID reports whether s has the canonical identifier shape.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
