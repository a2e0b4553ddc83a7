package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// MetadataMap stores a video's free-form metadata in a JSONB column.
// It always carries the storage key(s) needed to delete the video's
// durable objects, plus extractor fields like uploader and view count.
type MetadataMap map[string]any

// Scan implements sql.Scanner for reading from the database.
func (m *MetadataMap) Scan(value any) error {
	if value == nil {
		*m = MetadataMap{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("db.MetadataMap.Scan: expected []byte or string, got %T", value)
	}
}

// Value implements driver.Valuer for writing to the database.
func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m))
}

// ScanText implements the pgtype.TextScanner interface for pgx v5.
func (m *MetadataMap) ScanText(v pgtype.Text) error {
	if !v.Valid {
		*m = MetadataMap{}
		return nil
	}
	return json.Unmarshal([]byte(v.String), m)
}

// TextValue implements the pgtype.TextValuer interface for pgx v5.
func (m MetadataMap) TextValue() (pgtype.Text, error) {
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return pgtype.Text{}, err
	}
	return pgtype.Text{String: string(b), Valid: true}, nil
}
