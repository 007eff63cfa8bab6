package models

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

var jsonFalse = []byte("false")

func isEmptyValue(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, jsonFalse) || bytes.Equal(data, []byte("null"))
}

// OptionalString decodes the store's `false` for empty char/datetime fields.
type OptionalString struct {
	Value string
	Valid bool
}

func String(s string) OptionalString {
	return OptionalString{Value: s, Valid: true}
}

func (s *OptionalString) UnmarshalJSON(data []byte) error {
	if isEmptyValue(data) {
		*s = OptionalString{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode optional string: %w", err)
	}
	*s = OptionalString{Value: v, Valid: v != ""}
	return nil
}

func (s OptionalString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return jsonFalse, nil
	}
	return json.Marshal(s.Value)
}

type OptionalFloat struct {
	Value float64
	Valid bool
}

func Float(f float64) OptionalFloat {
	return OptionalFloat{Value: f, Valid: true}
}

func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	if isEmptyValue(data) {
		*f = OptionalFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode optional number: %w", err)
	}
	*f = OptionalFloat{Value: v, Valid: true}
	return nil
}

func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonFalse, nil
	}
	return json.Marshal(f.Value)
}

// Many2One is a relational reference, encoded as [id, "display name"] or false.
type Many2One struct {
	Id   int64
	Name string
}

func (m *Many2One) UnmarshalJSON(data []byte) error {
	if isEmptyValue(data) {
		*m = Many2One{}
		return nil
	}
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		var id int64
		if errID := json.Unmarshal(data, &id); errID == nil {
			*m = Many2One{Id: id}
			return nil
		}
		return fmt.Errorf("decode many2one: %w", err)
	}
	if len(pair) == 0 {
		*m = Many2One{}
		return nil
	}
	id, ok := pair[0].(float64)
	if !ok {
		return fmt.Errorf("decode many2one: id is %T", pair[0])
	}
	m.Id = int64(id)
	if len(pair) > 1 {
		if name, ok := pair[1].(string); ok {
			m.Name = name
		}
	}
	return nil
}

func (m Many2One) MarshalJSON() ([]byte, error) {
	if m.Id == 0 {
		return jsonFalse, nil
	}
	return json.Marshal([]any{m.Id, m.Name})
}
