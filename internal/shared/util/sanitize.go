package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameRunes = 120

// SanitizeFileName removes path separators and control characters, rejects
// traversal patterns and caps the name length while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if s == "" {
		return "", errors.New("invalid file name")
	}
	runes := []rune(s)
	if len(runes) > maxFileNameRunes {
		ext := []rune("")
		if dot := strings.LastIndex(s, "."); dot > 0 && len(s)-dot <= 10 {
			ext = []rune(s[dot:])
		}
		runes = append(runes[:maxFileNameRunes-len(ext)], ext...)
	}
	return string(runes), nil
}
