package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// Both backends paginate on the primary key, so a cursor is just the last row
// id of the previous page, wrapped so clients cannot mistake it for data.

func encodeCursor(id int64) Cursor {
	return Cursor(base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10))))
}

func decodeCursor(c Cursor) (int64, error) {
	if c == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	return id, nil
}
