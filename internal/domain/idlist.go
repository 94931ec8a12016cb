package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// IDList is a set of business IDs stored as a JSON array in a TEXT column.
// It backs Business.PotentialDuplicates so the duplicate-review workflow can
// keep the related listing IDs alongside the flag itself.
type IDList []string

// Value implements driver.Valuer. An empty list is stored as NULL so the
// column stays cheap to scan for unflagged rows.
func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for TEXT/BLOB and NULL column values.
func (l *IDList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("idlist: unsupported column type")
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// Contains reports whether id is present in the list.
func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
