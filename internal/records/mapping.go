package records

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/roster/pkg/query"
	"github.com/JaimeStill/roster/pkg/repository"
)

var document = query.
	NewDocumentMap("records", "r", "id", "seq", "doc").
	Key("name").
	Key("age").
	Key("email")

// QueryableFields returns every field name a lookup may reference.
func QueryableFields() []string {
	return append([]string{document.IDField()}, document.Keys()...)
}

func scanRecord(s repository.Scanner) (Record, error) {
	var rec Record
	var doc []byte
	if err := s.Scan(&rec.ID, &doc); err != nil {
		return rec, err
	}
	if err := json.Unmarshal(doc, &rec.Fields); err != nil {
		return rec, fmt.Errorf("decode document %s: %w", rec.ID, err)
	}
	return rec, nil
}

// ParseBatch decodes a bulk insert body. The body must be a JSON array of objects.
func ParseBatch(raw json.RawMessage) ([]Fields, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidBatch
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	batch := make([]Fields, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidBatch, i)
		}
		if err := json.Unmarshal(elem, &batch[i]); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrInvalidBody, i, err)
		}
	}
	return batch, nil
}

func encodeFields(f Fields) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
