package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores a free-form object in a jsonb column.
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSON source %T", value)
	}
}

// String returns the value under key, or "" when absent or not a string.
func (j JSON) String(key string) string {
	s, _ := j[key].(string)
	return s
}
