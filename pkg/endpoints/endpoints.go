// Package endpoints resolves endpoint keys ("projects", "projectMeta", ...)
// to absolute URLs, from built-in defaults or a YAML/JSON registry file.
package endpoints

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/samvad-hq/samvad-projects-client/internal/fileconf"
)

// Well-known keys of the projects API.
const (
	KeyProjects        = "projects"
	KeyProject         = "project"
	KeyProjectMeta     = "projectMeta"
	KeyProjectStatuses = "projectStatuses"
)

// fileRegistry is the on-disk shape of an endpoints file.
type fileRegistry struct {
	BaseURL   string            `json:"base_url" yaml:"base_url"`
	Endpoints map[string]string `json:"endpoints" yaml:"endpoints"`
}

// Registry maps endpoint keys to URLs. It is immutable once built.
type Registry struct {
	baseURL string
	idx     map[string]string
}

// Defaults returns the conventional projects layout rooted at baseURL.
func Defaults(baseURL string) (*Registry, error) {
	return New(baseURL, map[string]string{
		KeyProjects:        "projects",
		KeyProject:         "projects",
		KeyProjectMeta:     "projects/meta",
		KeyProjectStatuses: "projects/statuses",
	})
}

// New builds a registry. Relative entries are joined to baseURL, absolute URLs are kept.
func New(baseURL string, entries map[string]string) (*Registry, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" {
		if err := validateAbsolute(baseURL); err != nil {
			return nil, fmt.Errorf("base_url: %w", err)
		}
	}

	idx := make(map[string]string, len(entries))
	for key, raw := range entries {
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)
		if key == "" {
			return nil, errors.New("endpoint key is empty")
		}
		if raw == "" {
			return nil, fmt.Errorf("endpoint %q has no path", key)
		}
		resolved, err := join(baseURL, raw)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", key, err)
		}
		idx[key] = resolved
	}

	return &Registry{baseURL: baseURL, idx: idx}, nil
}

// Load reads an endpoints registry from a YAML/JSON file. fallbackBase is
// used when the file does not set base_url.
func Load(path, fallbackBase string) (*Registry, error) {
	var reg fileRegistry
	if err := fileconf.Load("endpoints", path, &reg); err != nil {
		return nil, err
	}
	if len(reg.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}

	base := strings.TrimSpace(reg.BaseURL)
	if base == "" {
		base = fallbackBase
	}
	return New(base, reg.Endpoints)
}

// Resolve returns the URL registered for key, or "" when unknown.
// Its signature matches resource.Resolver.
func (r *Registry) Resolve(key string) string {
	if r == nil {
		return ""
	}
	key = strings.TrimSpace(key)

	return r.idx[key]
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}


	out := make([]string, 0, len(r.idx))
	for k := range r.idx {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// All returns a copy of the key → URL table.
func (r *Registry) All() map[string]string {
	if r == nil {
		return nil
	}


	out := make(map[string]string, len(r.idx))
	for k, v := range r.idx {
		out[k] = v
	}
	return out
}

func join(base, raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return raw, nil
	}
	if base == "" {
		return "", fmt.Errorf("relative path %q requires a base_url", raw)
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(raw, "/"), nil
}

func validateAbsolute(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
