package domain

import "encoding/json"

const (
	projectIDKey   = "fldProjectID"
	projectNameKey = "name"
)

// Project is the business entity exposed by the projects API. Only the
// identifier and name are interpreted; every other field is carried verbatim
// in Extra so an update sends back exactly what was fetched.
type Project struct {
	ID    ProjectID                  `json:"fldProjectID"`
	Name  string                     `json:"name"`
	Extra map[string]json.RawMessage `json:"-"`
}

// ResourceID returns the path segment identifying the project.
func (p Project) ResourceID() string {
	return p.ID.String()
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, projectIDKey)
	delete(raw, projectNameKey)
	if len(raw) == 0 {
		raw = nil
	}

	*p = Project(base)
	p.Extra = raw
	return nil
}

// MarshalJSON merges Extra back with the known fields. Known fields win.
func (p Project) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+2)
	for k, v := range p.Extra {
		out[k] = v
	}
	out[projectIDKey] = p.ID
	out[projectNameKey] = p.Name
	return json.Marshal(out)
}
