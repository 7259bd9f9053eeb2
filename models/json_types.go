package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IntList stores an []int as a JSON column.
type IntList []int

// Value implements driver.Valuer.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	b, err := json.Marshal([]int(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IntList) Scan(src interface{}) error {
	if src == nil {
		*l = IntList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]int)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]int)(l))
	default:
		return fmt.Errorf("cannot scan %T into IntList", src)
	}
}

// TimeMap stores a map of string keys to timestamps as a JSON column.
type TimeMap map[string]time.Time

// Value implements driver.Valuer.
func (m TimeMap) Value() (driver.Value, error) {
	if m == nil {
		m = TimeMap{}
	}
	b, err := json.Marshal(map[string]time.Time(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *TimeMap) Scan(src interface{}) error {
	if src == nil {
		*m = TimeMap{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, (*map[string]time.Time)(m))
	case string:
		return json.Unmarshal([]byte(v), (*map[string]time.Time)(m))
	default:
		return fmt.Errorf("cannot scan %T into TimeMap", src)
	}
}
