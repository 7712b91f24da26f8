// Package cursor provides opaque pagination tokens for journal reads.
//
// A token carries the sequence number of the last delivery already seen plus a
// short hash of the match id, so tokens issued for one match journal cannot be
// replayed against another.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor is the decoded state of a pagination token. The next page starts at
// the first delivery with a sequence number greater than Seq.
type Cursor struct {
	Seq       uint64 `json:"seq"`
	MatchHash string `json:"match_hash,omitempty"`
}

// New creates a cursor positioned after the given sequence number.
func New(seq uint64, matchID string) Cursor {
	return Cursor{Seq: seq, MatchHash: hashMatch(matchID)}
}

// Encode encodes a cursor to an opaque base64 token.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque token. Returns an error if the token is invalid or
// malformed.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	return c, nil
}

// Validate checks that the cursor was issued for the given match journal.
func Validate(c Cursor, matchID string) error {
	if c.MatchHash != hashMatch(matchID) {
		return fmt.Errorf("cursor does not belong to this match")
	}
	return nil
}

// hashMatch computes a short hash of the match id. A 64-bit hash is
// sufficient for token validation.
func hashMatch(matchID string) string {
	if matchID == "" {
		return ""
	}
	h := sha256.Sum256([]byte(matchID))
	return hex.EncodeToString(h[:8])
}
