package scoring

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength is the length of tournament, team and access codes.
	CodeLength = 6
	// maxCodeAttempts bounds the uniqueness retry loop so a pathological
	// collision rate fails loudly instead of spinning forever.
	maxCodeAttempts = 1000
)

var ErrCodeSpaceExhausted = errors.New("could not generate a unique code")

// GenerateCode returns a random 6-character uppercase-alphanumeric code.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf), nil
}

// GenerateUniqueCode retries GenerateCode against checkUnique until an
// unused code is found or the attempt budget runs out.
func GenerateUniqueCode(ctx context.Context, checkUnique func(ctx context.Context, code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		unique, err := checkUnique(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if unique {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, maxCodeAttempts)
}
