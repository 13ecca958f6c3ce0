package store

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeCursor serialises the last id of a page to an opaque token.
func EncodeCursor(lastID string) string {
	if lastID == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte("id|" + lastID))
}

// DecodeCursor parses a token produced by EncodeCursor. An empty token starts at the beginning.
func DecodeCursor(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	id, ok := strings.CutPrefix(string(decoded), "id|")
	if !ok || id == "" {
		return "", fmt.Errorf("invalid cursor format")
	}
	return id, nil
}
