package query

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// EncodeOffsetToken encodes a stable offset into an opaque page token.
func EncodeOffsetToken(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeOffsetToken decodes a page token produced by EncodeOffsetToken.
func DecodeOffsetToken(token string) (int, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("query: malformed page token")
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("query: malformed page token")
	}
	return offset, nil
}

// Page slices sorted (the full, filtered, ordered result set) starting
// at offset, returning at most maxResults items and the token for the
// next page (nil once the last page has been returned).
func Page[T any](sorted []T, offset, maxResults int) (page []T, nextToken *string) {
	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + maxResults
	if end >= len(sorted) {
		return sorted[offset:], nil
	}
	tok := EncodeOffsetToken(end)
	return sorted[offset:end], &tok
}

// ValidateMaxResults enforces the "positive integer, at most upperBound"
// rule, returning the exact error messages callers are expected to
// surface.
func ValidateMaxResults(maxResults *int, upperBound int) (int, error) {
	if maxResults == nil {
		return 0, fmt.Errorf("Invalid value None for parameter 'max_results' supplied. It must be a positive integer, but got None")
	}
	if *maxResults <= 0 {
		return 0, fmt.Errorf("Invalid value %d for parameter 'max_results' supplied. It must be a positive integer, but got %d", *maxResults, *maxResults)
	}
	if *maxResults > upperBound {
		return 0, fmt.Errorf("Invalid value %d for parameter 'max_results' supplied. It must be at most %d, but got %d", *maxResults, upperBound, *maxResults)
	}
	return *maxResults, nil
}
