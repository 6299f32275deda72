package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// serialMaxAttempts caps the collision scan; past it the generator falls
// back to an epoch-derived suffix so it always terminates.
const serialMaxAttempts = 999

// GenerateSerialNumber produces a serial number unique within the
// category's existing inventory: a 3-letter uppercase prefix derived
// from the category name plus a zero-padded counter. On lookup failure
// or counter exhaustion it returns `<prefix><last 6 digits of epoch ms>`
// instead of blocking; the result is always a usable string.
func (s *InventoryService) GenerateSerialNumber(ctx context.Context, category string) string {
	prefix := serialPrefix(category)

	serials, err := s.items.ListSerialNumbers(ctx, category)
	if err != nil {
		return fallbackSerial(prefix)
	}

	existing := make(map[string]struct{}, len(serials))
	for _, sn := range serials {
		existing[sn] = struct{}{}
	}

	for n := 1; n <= serialMaxAttempts; n++ {
		candidate := fmt.Sprintf("%s%03d", prefix, n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}

	return fallbackSerial(prefix)
}

// serialPrefix takes the first three letters or digits of the category
// name, uppercased, padded with 'X' for very short names.
func serialPrefix(category string) string {
	var b strings.Builder
	count := 0
	for _, r := range category {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			count++
			if count >= 3 {
				break
			}
		}
	}
	for ; count < 3; count++ {
		b.WriteByte('X')
	}
	return b.String()
}

func fallbackSerial(prefix string) string {
	return fmt.Sprintf("%s%06d", prefix, time.Now().UnixMilli()%1000000)
}
