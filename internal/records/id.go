package records

import (
	"bytes"
	"encoding/json"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// ID identifies a record. Stored data uses both JSON numbers (usually
// millisecond timestamps) and strings; ID keeps the text of either.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.Newf("id must be a number or a string, got %s", data)
		}
		*id = ID(n)
	}
	return nil
}

func (id ID) String() string { return string(id) }
