package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Ref is a reference to a classification entity (purpose, type, category, subtype).
// Clients send either a bare id or an object carrying an id; both decode to the same Ref.
type Ref struct {
	ID string `json:"id"`
}

// UnmarshalJSON normalizes "id", 42 and {"id": ..., "name": ...} into a Ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	id, err := refID(data)
	if err != nil {
		return err
	}
	r.ID = id

	return nil
}

func refID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", errors.Wrap(err, "decode reference string")
		}

		return strings.TrimSpace(s), nil
	case '{':
		var obj struct {
			ID    json.RawMessage `json:"id"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", errors.Wrap(err, "decode reference object")
		}
		if len(obj.ID) == 0 {
			obj.ID = obj.Value
		}
		if len(obj.ID) == 0 || obj.ID[0] == '{' {
			return "", errors.New("reference object has no id")
		}

		return refID(obj.ID)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", errors.Errorf("unsupported reference %s", string(data))
		}

		return n.String(), nil
	}
}

// Refs is an ordered collection of references; empty ids are dropped on decode.
type Refs []Ref

// UnmarshalJSON accepts an array of references or a single reference.
func (rs *Refs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*rs = nil

		return nil
	}

	var raw []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return errors.Wrap(err, "decode reference list")
		}
	} else {
		raw = []json.RawMessage{data}
	}

	out := make(Refs, 0, len(raw))
	for _, item := range raw {
		id, err := refID(item)
		if err != nil {
			return err
		}
		if id == "" {
			continue
		}
		out = append(out, Ref{ID: id})
	}
	*rs = out

	return nil
}

// IDs returns the distinct ids in first-seen order.
func (rs Refs) IDs() []string {
	seen := make(map[string]struct{}, len(rs))
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		if r.ID == "" {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}

	return ids
}

// ListingTypes splits the listing's type labels by origin.
type ListingTypes struct {
	Database Refs     `json:"database"`
	Inbuilt  []string `json:"inbuilt"`
	Custom   []string `json:"custom"`
}

// Amount is a float that also accepts numeric strings in JSON input.
type Amount float64

// UnmarshalJSON decodes 12.5 and "12.5". Blank strings decode as zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WithStack(err)
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			*a = 0

			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Errorf("invalid number %q", s)
		}
		*a = Amount(f)

		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "invalid number")
	}
	*a = Amount(f)

	return nil
}

// Float returns the value as float64, treating nil as zero.
func (a *Amount) Float() float64 {
	if a == nil {
		return 0
	}

	return float64(*a)
}

// NewAmount returns a pointer to the given value.
func NewAmount(v float64) *Amount {
	a := Amount(v)

	return &a
}
