package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ToolCallList is an ordered list of tool calls stored as a JSON array. An
// empty list is stored as NULL.
type ToolCallList []ToolCall

// Scan implements the sql.Scanner interface for ToolCallList
func (l *ToolCallList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan type %T into ToolCallList", value)
	}
	if len(raw) == 0 || string(raw) == "[]" || string(raw) == "null" {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]ToolCall)(l))
}

// Value implements the driver.Valuer interface for ToolCallList
func (l ToolCallList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]ToolCall(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
