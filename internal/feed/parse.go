package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"sigscan/internal/signature"
)

type document struct {
	Bonus []json.RawMessage `json:"bonus"`
}

// Parse extracts the signatures from a decrypted tunables document. A
// document without a "bonus" member holds no signatures. Entries must be
// arrays of exactly five integers, signed or unsigned.
func Parse(data []byte) ([]signature.Encoded, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}

	sigs := make([]signature.Encoded, 0, len(doc.Bonus))
	for i, raw := range doc.Bonus {
		values, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("bonus entry %d: %w", i, err)
		}
		e, err := signature.ParseWords(values)
		if err != nil {
			return nil, fmt.Errorf("bonus entry %d: %w", i, err)
		}
		sigs = append(sigs, e)
	}
	return sigs, nil
}

func parseEntry(raw json.RawMessage) ([]int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var words []any
	if err := dec.Decode(&words); err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrInvalidDescriptor, err)
	}

	values := make([]int64, len(words))
	for i, w := range words {
		n, ok := w.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: word %d is not a number: %v", signature.ErrInvalidDescriptor, i, w)
		}
		v, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: word %d is not an integer: %s", signature.ErrInvalidDescriptor, i, n)
		}
		values[i] = v
	}
	return values, nil
}
