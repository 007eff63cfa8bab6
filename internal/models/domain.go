package models

import json "github.com/goccy/go-json"

// Condition is one (field, operator, value) triple of a search domain.
type Condition struct {
	Field    string
	Operator string
	Value    any
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Field, c.Operator, c.Value})
}

// Domain is a conjunction of conditions.
type Domain []Condition

func (d Domain) Find(field, operator string) (Condition, bool) {
	for _, c := range d {
		if c.Field == field && c.Operator == operator {
			return c, true
		}
	}
	return Condition{}, false
}

type SearchOptions struct {
	Limit  int
	Offset int
	Order  string
}
