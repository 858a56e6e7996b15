// internal/models/common.go
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// JSONB type for PostgreSQL
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
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// TriState is the declared value of a dietary attribute on a product.
// The zero value is Unknown: the attribute was not declared.
type TriState int8

const (
	Unknown TriState = iota
	FreeOf
	Contains
)

func (t TriState) String() string {
	switch t {
	case FreeOf:
		return "free_of"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// TriStateOf maps a nullable boolean onto a TriState.
func TriStateOf(b *bool) TriState {
	switch {
	case b == nil:
		return Unknown
	case *b:
		return Contains
	default:
		return FreeOf
	}
}

// Bool is the inverse of TriStateOf.
func (t TriState) Bool() *bool {
	var b bool
	switch t {
	case Contains:
		b = true
	case FreeOf:
		b = false
	default:
		return nil
	}
	return &b
}

func (t TriState) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Bool())
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("attribute value must be true, false or null: %w", err)
	}
	*t = TriStateOf(b)
	return nil
}

// Attributes maps attribute keys (contem_ovos, pode_conter_leite, ...) to
// their declared value. Missing keys read as Unknown.
type Attributes map[string]TriState

// Get returns the value for key, Unknown when absent.
func (a Attributes) Get(key string) TriState {
	if a == nil {
		return Unknown
	}
	return a[key]
}

func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *Attributes) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes column type %T", value)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*a = Attributes{}
		return nil
	}

	out := Attributes{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	*a = out
	return nil
}
