package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProjectID is the server's project identifier. It may be a JSON number or a
// string and is re-encoded in the form it arrived in.
type ProjectID struct {
	value  string
	quoted bool
}

// NumericProjectID builds an identifier encoded as a JSON number.
func NumericProjectID(n int64) ProjectID {
	return ProjectID{value: strconv.FormatInt(n, 10)}
}

// ParseProjectID reads an identifier typed by a user: integers become
// numeric ids, anything else a string id.
func ParseProjectID(raw string) ProjectID {
	raw = strings.TrimSpace(raw)
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ProjectID{value: raw}
	}
	return ProjectID{value: raw, quoted: true}
}

func (id ProjectID) String() string { return id.value }

// IsZero reports whether the id is absent.
func (id ProjectID) IsZero() bool { return id.value == "" }

func (id ProjectID) MarshalJSON() ([]byte, error) {
	switch {
	case id.value == "" && !id.quoted:
		return []byte("null"), nil
	case id.quoted:
		return json.Marshal(id.value)
	default:
		return []byte(id.value), nil
	}
}

func (id *ProjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ProjectID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("project id: %w", err)
		}
		*id = ProjectID{value: s, quoted: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("project id: %w", err)
	}
	*id = ProjectID{value: n.String()}
	return nil
}
