package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-projects-client/internal/config"
	"github.com/samvad-hq/samvad-projects-client/internal/logger"
	"github.com/samvad-hq/samvad-projects-client/internal/storage"
	"github.com/samvad-hq/samvad-projects-client/pkg/endpoints"
	"github.com/samvad-hq/samvad-projects-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-projects-client/pkg/projects"
	"github.com/samvad-hq/samvad-projects-client/pkg/publishers"
	"github.com/samvad-hq/samvad-projects-client/pkg/resource"
)

// App wires the projects client to its endpoint registry, the mutation
// journal and the change publishers.
type App struct {
	cfg      *config.Config
	Projects *projects.Service
	registry *endpoints.Registry
	fanout   *publishers.Fanout
	store    storage.Store
	log      logger.Logger
}

// New builds the runtime from config.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	registry, err := loadEndpoints(cfg)
	if err != nil {
		return nil, err
	}
	log.InfoObj("endpoints registry loaded", "endpoints_meta", map[string]any{
		"file": cfg.EndpointsFile,
		"keys": registry.Keys(),
	})

	fanout, err := loadPublishers(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"journal_ttl_seconds":      int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	a := &App{
		cfg:      cfg,
		registry: registry,
		fanout:   fanout,
		store:    store,
		log:      log,
	}

	svc, err := projects.New(registry.Resolve,
		projects.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		projects.WithLogger(log),
		projects.WithChangeHook(a.recordChange),
	)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init projects client: %w", err)
	}
	a.Projects = svc

	return a, nil
}

func loadEndpoints(cfg *config.Config) (*endpoints.Registry, error) {
	if cfg.EndpointsFile != "" {
		reg, err := endpoints.Load(cfg.EndpointsFile, cfg.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("load endpoints registry: %w", err)
		}
		return reg, nil
	}
	reg, err := endpoints.Defaults(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("default endpoints: %w", err)
	}
	return reg, nil
}

// loadPublishers returns an empty fanout when no publishers file is configured.
func loadPublishers(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	set, err := publishers.LoadConfig(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers config: %w", err)
	}
	enabled := set.Enabled()

	pubClients, err := publishers.DefaultBuilders().BuildAll(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// recordChange journals and publishes an accepted mutation. Failures here are
// logged only; the mutation itself already succeeded.
func (a *App) recordChange(ctx context.Context, change resource.Change) {
	entry := storage.Entry{
		Resource:   change.Resource,
		Action:     string(change.Action),
		ResourceID: change.ID,
		RecordedAt: time.Now().UTC(),
	}
	if err := a.store.Append(entry); err != nil {
		a.log.ErrorObj("journal append failed", "journal_error", map[string]any{
			"resource":    change.Resource,
			"action":      change.Action,
			"resource_id": change.ID,
			"error":       err.Error(),
		})
	}

	if a.fanout.Size() == 0 {
		return
	}
	evt, err := publishers.NewEvent(change)
	if err != nil {
		a.log.ErrorObj("change event encode failed", "publish_error", map[string]any{
			"resource_id": change.ID,
			"error":       err.Error(),
		})
		return
	}
	delivered, err := a.fanout.Publish(ctx, evt)
	if err != nil {
		a.log.ErrorObj("change event publish failed", "publish_error", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	a.log.DebugObj("change event published", "publish_meta", map[string]any{
		"event_id":  evt.ID,
		"delivered": delivered,
	})
}

// History returns the most recent journaled mutations, newest first.
func (a *App) History(limit int) ([]storage.Entry, error) {
	if a == nil || a.store == nil {
		return nil, fmt.Errorf("app is not initialized")
	}
	return a.store.Recent(limit)
}

// Endpoints returns the resolved endpoint registry.
func (a *App) Endpoints() map[string]string {
	return a.registry.All()
}

// Close releases the journal and any publisher clients, logging failures.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorObj("storage close failed", "error", err)
			firstErr = err
		}
	}
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publishers close failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
