package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// HashUserKey returns a filesystem-safe identifier for a user ID.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ObjectKey splits a new upload key into the hashed owner directory and a
// unique, sanitized object name.
func ObjectKey(userID, fileName string) (dir, name string, err error) {
	sanitized, err := SanitizeFileName(fileName)
	if err != nil {
		return "", "", fmt.Errorf("sanitize file name: %w", err)
	}
	unique := strings.ReplaceAll(uuid.NewString(), "-", "")
	return HashUserKey(userID), unique + "_" + sanitized, nil
}
