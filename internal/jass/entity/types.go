package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB maps a postgres jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// MonthList stores the "YYYY-MM" periods a payment covers as jsonb.
type MonthList []string

func (m MonthList) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(m)
}

func (m *MonthList) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan MonthList: %v", value)
	}
	return json.Unmarshal(bytes, m)
}
