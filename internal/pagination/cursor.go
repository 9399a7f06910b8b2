// Package pagination implements opaque keyset cursors for list endpoints.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// Cursor marks the position of the last item on the previous page.
type Cursor struct {
	LastID    string    `json:"id"`
	Timestamp time.Time `json:"ts"`
}

var ErrInvalidCursor = errors.New("invalid cursor format")

// EncodeCursor creates an opaque cursor from the last item ID and timestamp.
func EncodeCursor(lastID string, timestamp time.Time) string {
	if lastID == "" {
		return ""
	}
	raw, err := json.Marshal(Cursor{LastID: lastID, Timestamp: timestamp.UTC()})
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque cursor. An empty cursor decodes to nil
// without error.
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrInvalidCursor
	}
	if c.LastID == "" || c.Timestamp.IsZero() {
		return nil, ErrInvalidCursor
	}

	return &c, nil
}
