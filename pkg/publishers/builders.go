package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Builder creates a Publisher from a validated config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Builders maps publisher types to their constructors.
type Builders map[string]Builder

// DefaultBuilders knows every built-in publisher type.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newGCPPubSubPublisher,
	}
}

// Build constructs the publisher for cfg.
func (b Builders) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	build, ok := b[cfg.Type]
	if !ok || build == nil {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	return build(ctx, cfg, orDiscard(log))
}

// BuildAll constructs a publisher per entry. On failure the publishers built
// so far are closed.
func (b Builders) BuildAll(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := b.Build(ctx, cfg, log)
		if err != nil {
			return nil, errors.Join(err, closeAll(pubs))
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
