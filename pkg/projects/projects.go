// Package projects is the typed client of the remote projects API.
package projects

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-projects-client/internal/domain"
	"github.com/samvad-hq/samvad-projects-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-projects-client/pkg/endpoints"
	"github.com/samvad-hq/samvad-projects-client/pkg/resource"
)

// ResourceName identifies projects in logs, journal entries and events.
const ResourceName = "projects"

// Meta is the status breakdown returned by the project meta endpoint.
type Meta = resource.Meta[domain.ProjectStatus]

// Page is one page of projects.
type Page = resource.Page[domain.Project]

// Keys are the endpoint keys the service resolves.
var Keys = resource.Keys{
	Collection: endpoints.KeyProjects,
	Item:       endpoints.KeyProject,
	Meta:       endpoints.KeyProjectMeta,
	Statuses:   endpoints.KeyProjectStatuses,
}

// Option customizes a Service.
type Option func(*resource.Config)

// WithHTTPClient overrides the transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cfg *resource.Config) { cfg.HTTP = c }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(log resource.Logger) Option {
	return func(cfg *resource.Config) { cfg.Logger = log }
}

// WithChangeHook registers a callback for accepted mutations.
func WithChangeHook(fn func(ctx context.Context, change resource.Change)) Option {
	return func(cfg *resource.Config) { cfg.OnChange = fn }
}

// Service performs CRUD calls against the projects endpoints.
type Service struct {
	client *resource.Client[domain.Project, domain.ProjectStatus]
}

// New resolves the project endpoints through resolve and builds a Service.
func New(resolve resource.Resolver, opts ...Option) (*Service, error) {
	eps, err := resource.ResolveEndpoints(resolve, Keys)
	if err != nil {
		return nil, fmt.Errorf("resolve project endpoints: %w", err)
	}

	cfg := resource.Config{Name: ResourceName, Endpoints: eps}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	client, err := resource.New[domain.Project, domain.ProjectStatus](cfg)
	if err != nil {
		return nil, err
	}
	return &Service{client: client}, nil
}

// Endpoints returns the URLs the service talks to.
func (s *Service) Endpoints() resource.Endpoints { return s.client.Endpoints() }

func (s *Service) GetProjectsByPage(ctx context.Context, page, perPage int) (Page, error) {
	return s.client.ListByPage(ctx, page, perPage)
}

func (s *Service) GetProject(ctx context.Context, id domain.ProjectID) (domain.Project, error) {
	return s.client.GetOne(ctx, id.String())
}

func (s *Service) GetProjectsMeta(ctx context.Context) (Meta, error) {
	return s.client.GetMeta(ctx)
}

func (s *Service) GetProjectStatuses(ctx context.Context) ([]domain.ProjectStatus, error) {
	return s.client.Statuses(ctx)
}

func (s *Service) Delete(ctx context.Context, id domain.ProjectID) error {
	return s.client.Delete(ctx, id.String())
}

func (s *Service) Create(ctx context.Context, name string) (domain.Project, error) {
	return s.client.Create(ctx, name)
}

// Update sends the full project to {project}/{fldProjectID}.
func (s *Service) Update(ctx context.Context, project domain.Project) (resource.OperationResult, error) {
	return s.client.Update(ctx, project)
}
