package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Fields holds the document fields of a record. Nil fields are absent from the
// stored document.
type Fields struct {
	Name  *string  `json:"name,omitempty"`
	Age   *float64 `json:"age,omitempty"`
	Email *string  `json:"email,omitempty"`
}

// UnmarshalJSON decodes a document body. Age accepts a JSON number or a string
// holding one; an empty string leaves it unset.
func (f *Fields) UnmarshalJSON(data []byte) error {
	type fields Fields
	var body struct {
		fields
		Age json.RawMessage `json:"age"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	age, err := decodeAge(body.Age)
	if err != nil {
		return err
	}

	*f = Fields(body.fields)
	f.Age = age
	return nil
}

// Record is a stored document with its storage-assigned identifier.
type Record struct {
	ID uuid.UUID `json:"id"`
	Fields
}

// UnmarshalJSON decodes the identifier alongside the document fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	var head struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := r.Fields.UnmarshalJSON(data); err != nil {
		return err
	}
	r.ID = head.ID
	return nil
}

// UpdateNameCommand sets the name of the first record with a matching age.
type UpdateNameCommand struct {
	Age     *float64 `json:"age"`
	NewName *string  `json:"newName"`
}

// UnmarshalJSON decodes the command body, casting age the way Fields does.
func (c *UpdateNameCommand) UnmarshalJSON(data []byte) error {
	type command UpdateNameCommand
	var body struct {
		command
		Age json.RawMessage `json:"age"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	age, err := decodeAge(body.Age)
	if err != nil {
		return err
	}

	*c = UpdateNameCommand(body.command)
	c.Age = age
	return nil
}

// Envelope is the response body of every data endpoint.
type Envelope struct {
	Message      string   `json:"message"`
	Data         any      `json:"data,omitempty"`
	AverageAge   *float64 `json:"averageAge,omitempty"`
	UpdatedCount *int64   `json:"updatedCount,omitempty"`
}

func decodeAge(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '"' {
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("age: %w", err)
		}
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("age: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return nil, fmt.Errorf("age: %q is not a number", s)
	}
	return &n, nil
}
