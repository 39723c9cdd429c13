package pagination

import (
	"encoding/base64"
	"encoding/json"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=25"`
}

// Cursor marks a position in a stable, fully materialized listing. The
// store hands out snapshot slices, so an offset cursor is exact.
type Cursor struct {
	Offset int `json:"offset"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) string {
	b, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeCursor(data string) (Cursor, error) {
	if data == "" {
		return Cursor{}, nil
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Cursor{}, err
	}
	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return Cursor{}, err
	}
	return cursor, nil
}

// Page windows rows by the cursor token and page size, returning the page
// and the info needed to fetch the next one. Size defaults to 25 and is
// capped at 250.
func Page[T any](rows []T, token string, size int) ([]T, PageInfo, error) {
	cursor, err := DecodeCursor(token)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if size <= 0 {
		size = 25
	}
	if size > 250 {
		size = 250
	}

	offset := cursor.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}, PageInfo{}, nil
	}

	end := offset + size
	hasMore := end < len(rows)
	if !hasMore {
		end = len(rows)
	}

	info := PageInfo{HasMore: hasMore}
	if hasMore {
		info.NextPageToken = EncodeCursor(Cursor{Offset: end})
	}
	return rows[offset:end], info, nil
}
