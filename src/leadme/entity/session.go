package entity

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	// ClassCodeAlphabet omits characters that are easily confused when read aloud or off a screen.
	ClassCodeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	// ClassCodeLength is the number of characters in a class code.
	ClassCodeLength = 4
)

// Leader is the identity that owns a session.
type Leader struct {
	Name     string
	UniqueID string
	UserID   string
}

// ClassSession is a live classroom addressed by its class code.
type ClassSession struct {
	ClassCode string
	Leader    Leader
}

// GenerateClassCode draws a class code from r. A nil reader uses crypto/rand.
// Bytes at or above the largest multiple of the alphabet size are discarded, so every
// character is equally likely.
func GenerateClassCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	limit := 256 - 256%len(ClassCodeAlphabet)

	code := make([]byte, 0, ClassCodeLength)
	buf := make([]byte, ClassCodeLength)
	for len(code) < ClassCodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, ClassCodeAlphabet[int(b)%len(ClassCodeAlphabet)])
			if len(code) == ClassCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// ValidClassCode reports whether code could have been produced by GenerateClassCode.
func ValidClassCode(code string) bool {
	if len(code) != ClassCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(ClassCodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
