package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/samvad-hq/samvad-projects-client/internal/app"
	"github.com/samvad-hq/samvad-projects-client/internal/config"
	"github.com/samvad-hq/samvad-projects-client/internal/domain"
	"github.com/samvad-hq/samvad-projects-client/internal/logger"
	"github.com/samvad-hq/samvad-projects-client/pkg/projects"
	"github.com/samvad-hq/samvad-projects-client/pkg/resource"
)

var errUsage = errors.New("usage: projectctl <list|get|meta|statuses|summary|create|update|delete|history|endpoints> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("projectctl starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize projectctl", "error", err)
		return err
	}
	defer a.Close()

	return execute(ctx, a, args, stdout)
}

// errorMessage returns the normalized message for request failures and the
// plain error text for everything else (config, flags, startup).
func errorMessage(err error) string {
	var reqErr *resource.RequestError
	if errors.As(err, &reqErr) {
		return resource.Describe(err)
	}
	return err.Error()
}

type command func(ctx context.Context, a *app.App, args []string) (any, error)

var commands = map[string]command{
	"list":      listCmd,
	"get":       getCmd,
	"meta":      metaCmd,
	"statuses":  statusesCmd,
	"summary":   summaryCmd,
	"create":    createCmd,
	"update":    updateCmd,
	"delete":    deleteCmd,
	"history":   historyCmd,
	"endpoints": endpointsCmd,
}

// execute runs one subcommand and writes its result to out as indented JSON.
func execute(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown command %q; %w", args[0], errUsage)
	}

	result, err := cmd(ctx, a, args[1:])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func listCmd(ctx context.Context, a *app.App, args []string) (any, error) {
	fs := newFlagSet("list")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 20, "items per page")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return a.Projects.GetProjectsByPage(ctx, *page, *perPage)
}

func getCmd(ctx context.Context, a *app.App, args []string) (any, error) {
	id, err := parseID("get", args)
	if err != nil {
		return nil, err
	}
	return a.Projects.GetProject(ctx, id)
}

func metaCmd(ctx context.Context, a *app.App, _ []string) (any, error) {
	return a.Projects.GetProjectsMeta(ctx)
}

func statusesCmd(ctx context.Context, a *app.App, _ []string) (any, error) {
	return a.Projects.GetProjectStatuses(ctx)
}

type summary struct {
	Meta     *projects.Meta         `json:"meta,omitempty"`
	Statuses []domain.ProjectStatus `json:"statuses,omitempty"`
	Errors   []string               `json:"errors,omitempty"`
}

// summaryCmd fetches meta and statuses concurrently. One failing call does
// not discard the other's result.
func summaryCmd(ctx context.Context, a *app.App, _ []string) (any, error) {
	metaF := resource.Go(ctx, a.Projects.GetProjectsMeta)
	statusF := resource.Go(ctx, a.Projects.GetProjectStatuses)

	var out summary
	meta, metaErr := metaF.Await()
	if metaErr == nil {
		out.Meta = &meta
	} else {
		out.Errors = append(out.Errors, "meta: "+resource.Describe(metaErr))
	}
	statuses, statusErr := statusF.Await()
	if statusErr == nil {
		out.Statuses = statuses
	} else {
		out.Errors = append(out.Errors, "statuses: "+resource.Describe(statusErr))
	}

	if metaErr != nil && statusErr != nil {
		return nil, metaErr
	}
	return out, nil
}

func createCmd(ctx context.Context, a *app.App, args []string) (any, error) {
	fs := newFlagSet("create")
	name := fs.String("name", "", "project name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(*name) == "" {
		return nil, errors.New("create: -name is required")
	}
	return a.Projects.Create(ctx, *name)
}

// updateCmd renames a project. The project is fetched first so fields the
// client does not model are sent back untouched.
func updateCmd(ctx context.Context, a *app.App, args []string) (any, error) {
	fs := newFlagSet("update")
	rawID := fs.String("id", "", "project id")
	name := fs.String("name", "", "new project name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	id := domain.ParseProjectID(*rawID)
	if id.IsZero() || strings.TrimSpace(*name) == "" {
		return nil, errors.New("update: -id and -name are required")
	}

	project, err := a.Projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Name = *name
	return a.Projects.Update(ctx, project)
}

func deleteCmd(ctx context.Context, a *app.App, args []string) (any, error) {
	id, err := parseID("delete", args)
	if err != nil {
		return nil, err
	}
	if err := a.Projects.Delete(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id}, nil
}

func historyCmd(_ context.Context, a *app.App, args []string) (any, error) {
	fs := newFlagSet("history")
	limit := fs.Int("limit", 20, "max entries")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return a.History(*limit)
}

func endpointsCmd(_ context.Context, a *app.App, _ []string) (any, error) {
	all := a.Endpoints()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, map[string]string{"key": k, "url": all[k]})
	}
	return out, nil
}

// parseID reads -id. Numeric ids and string ids such as "P-12" are both
// accepted.
func parseID(name string, args []string) (domain.ProjectID, error) {
	fs := newFlagSet(name)
	raw := fs.String("id", "", "project id")
	if err := fs.Parse(args); err != nil {
		return domain.ProjectID{}, err
	}
	id := domain.ParseProjectID(*raw)
	if id.IsZero() {
		return domain.ProjectID{}, fmt.Errorf("%s: -id is required", name)
	}
	return id, nil
}
