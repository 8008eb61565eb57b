package domain

import "encoding/json"

// ProjectStatus is one entry of a statuses list. The server decides its
// shape (a bare label, an object, ...); it is kept as received and
// re-encoded byte for byte.
type ProjectStatus struct {
	raw json.RawMessage
}

// Raw returns the entry as the server sent it.
func (s ProjectStatus) Raw() json.RawMessage { return s.raw }

// Label returns the entry when it is a bare JSON string, else "".
func (s ProjectStatus) Label() string {
	var label string
	if err := json.Unmarshal(s.raw, &label); err != nil {
		return ""
	}
	return label
}

func (s ProjectStatus) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

func (s *ProjectStatus) UnmarshalJSON(data []byte) error {
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}
