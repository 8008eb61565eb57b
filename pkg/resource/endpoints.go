package resource

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver maps an endpoint key (e.g. "projects") to a URL. Unknown keys yield "".
type Resolver func(key string) string

// Keys names the endpoint keys a resource is addressed by.
type Keys struct {
	Collection string
	Item       string
	Meta       string
	Statuses   string
}

// Endpoints are the resolved URLs of a resource.
type Endpoints struct {
	Collection string
	Item       string
	Meta       string
	Statuses   string
}

// ResolveEndpoints resolves keys through resolve. Only the collection is
// required: the item URL defaults to the collection, meta and statuses to
// {collection}/meta and {collection}/statuses.
func ResolveEndpoints(resolve Resolver, keys Keys) (Endpoints, error) {
	if resolve == nil {
		return Endpoints{}, fmt.Errorf("endpoint resolver is nil")
	}

	eps := Endpoints{
		Collection: lookup(resolve, keys.Collection),
		Item:       lookup(resolve, keys.Item),
		Meta:       lookup(resolve, keys.Meta),
		Statuses:   lookup(resolve, keys.Statuses),
	}
	if eps.Collection == "" {
		return Endpoints{}, fmt.Errorf("no endpoint resolved for collection key %q", keys.Collection)
	}
	return eps.withDefaults(), nil
}

func lookup(resolve Resolver, key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	return strings.TrimSpace(resolve(key))
}

func (e Endpoints) withDefaults() Endpoints {
	base := strings.TrimRight(e.Collection, "/")
	if e.Item == "" {
		e.Item = e.Collection
	}
	if e.Meta == "" {
		e.Meta = base + "/meta"
	}
	if e.Statuses == "" {
		e.Statuses = base + "/statuses"
	}
	return e
}

func (e Endpoints) validate() error {
	for name, raw := range map[string]string{
		"collection": e.Collection,
		"item":       e.Item,
		"meta":       e.Meta,
		"statuses":   e.Statuses,
	} {
		if raw == "" {
			return fmt.Errorf("%s endpoint is empty", name)
		}
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("%s endpoint %q: %w", name, raw, err)
		}
	}
	return nil
}

// itemURL returns {item}/{id}.
func (e Endpoints) itemURL(id string) string {
	return strings.TrimRight(e.Item, "/") + "/" + url.PathEscape(id)
}

// createURL returns {item}/.
func (e Endpoints) createURL() string {
	return strings.TrimRight(e.Item, "/") + "/"
}
