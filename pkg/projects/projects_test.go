package projects

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samvad-hq/samvad-projects-client/internal/domain"
	"github.com/samvad-hq/samvad-projects-client/pkg/endpoints"
	"github.com/samvad-hq/samvad-projects-client/pkg/resource"
)

// fakeAPI is a tiny in-memory projects server.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" || r.URL.Query().Get("perPage") == "" {
			http.Error(w, `{"message":"paging required"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"fldProjectID":1,"name":"Alpha","fldClient":"ACME"}],"total":1}`))
	})
	mux.HandleFunc("GET /api/projects/meta", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"statuses":[{"id":1,"label":"active"}],"totals":[1],"total":1}`))
	})
	mux.HandleFunc("GET /api/projects/statuses", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"label":"active"},{"id":2,"label":"archived"}]`))
	})
	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"fldProjectID":1,"name":"Alpha","fldClient":"ACME"}`))
	})
	mux.HandleFunc("POST /api/projects/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil || body["name"] == "" {
			http.Error(w, `{"message":"name required"}`, http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"fldProjectID":2,"name":"` + body["name"] + `"}}`))
	})
	mux.HandleFunc("PUT /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var p map[string]any
		if err := json.Unmarshal(raw, &p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if p["fldClient"] != "ACME" {
			http.Error(w, `{"message":"opaque field lost"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"status":1}`))
	})
	mux.HandleFunc("DELETE /api/projects/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, base string, opts ...Option) *Service {
	t.Helper()
	reg, err := endpoints.Defaults(base + "/api")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	svc, err := New(reg.Resolve, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestServiceRoundTrip(t *testing.T) {
	srv := fakeAPI(t)
	var changes []resource.Change
	svc := newService(t, srv.URL, WithChangeHook(func(_ context.Context, ch resource.Change) {
		changes = append(changes, ch)
	}))
	ctx := context.Background()

	page, err := svc.GetProjectsByPage(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetProjectsByPage: %v", err)
	}
	if page.Total != 1 || len(page.Result) != 1 || page.Result[0].Name != "Alpha" {
		t.Fatalf("unexpected page %+v", page)
	}

	project, err := svc.GetProject(ctx, domain.NumericProjectID(1))
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}

	project.Name = "Alpha v2"
	res, err := svc.Update(ctx, project)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Status != float64(1) {
		t.Fatalf("update status = %#v", res.Status)
	}

	created, err := svc.Create(ctx, "Beta")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != domain.NumericProjectID(2) || created.Name != "Beta" {
		t.Fatalf("unexpected created project %+v", created)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	meta, err := svc.GetProjectsMeta(ctx)
	if err != nil {
		t.Fatalf("GetProjectsMeta: %v", err)
	}
	if meta.Total != 1 || string(meta.Statuses[0].Raw()) != `{"id":1,"label":"active"}` {
		t.Fatalf("unexpected meta %+v", meta)
	}

	statuses, err := svc.GetProjectStatuses(ctx)
	if err != nil {
		t.Fatalf("GetProjectStatuses: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("unexpected statuses %+v", statuses)
	}

	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %+v", changes)
	}
	wantActions := []resource.Action{resource.ActionUpdate, resource.ActionCreate, resource.ActionDelete}
	for i, ch := range changes {
		if ch.Action != wantActions[i] || ch.Resource != ResourceName {
			t.Fatalf("change %d = %+v", i, ch)
		}
	}
}

func TestServiceSurfacesNormalizedErrors(t *testing.T) {
	srv := fakeAPI(t)
	svc := newService(t, srv.URL)
	ctx := context.Background()

	if _, err := svc.GetProject(ctx, domain.NumericProjectID(99)); err == nil || err.Error() != "404 - Not Found" {
		t.Fatalf("GetProject(99) err = %v", err)
	}
	if _, err := svc.Create(ctx, ""); err == nil || err.Error() != "name required" {
		t.Fatalf("Create(\"\") err = %v", err)
	}
	if _, err := svc.Update(ctx, domain.Project{ID: domain.NumericProjectID(1), Name: "no extras"}); err == nil || err.Error() != "opaque field lost" {
		t.Fatalf("Update without extras err = %v", err)
	}
}

func TestServiceMetaReencodesServerBody(t *testing.T) {
	bodies := []string{
		`{"statuses":["Open","Closed"],"totals":[1,2],"total":3}`,
		`{"statuses":[{"fldStatusID":1,"fldStatus":"Open"},{"fldStatusID":2,"fldStatus":"Closed"}],"totals":[4,0],"total":4}`,
	}
	for _, body := range bodies {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/projects/meta", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		srv := httptest.NewServer(mux)
		svc := newService(t, srv.URL)

		meta, err := svc.GetProjectsMeta(context.Background())
		srv.Close()
		if err != nil {
			t.Fatalf("GetProjectsMeta(%s): %v", body, err)
		}
		out, err := json.Marshal(meta)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(out) != body {
			t.Fatalf("meta re-encoded as %s, server sent %s", out, body)
		}
	}
}

func TestServiceStringProjectID(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "P-12" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"fldProjectID":"P-12","name":"Lyra"}`)
	})
	mux.HandleFunc("DELETE /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	svc := newService(t, srv.URL)
	ctx := context.Background()

	project, err := svc.GetProject(ctx, domain.ParseProjectID("P-12"))
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if project.ResourceID() != "P-12" || project.Name != "Lyra" {
		t.Fatalf("unexpected project %+v", project)
	}
	if err := svc.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != "P-12" {
		t.Fatalf("deleted %q", deleted)
	}
}

func TestNewFailsWithoutCollectionEndpoint(t *testing.T) {
	if _, err := New(func(string) string { return "" }); err == nil {
		t.Fatalf("expected error when projects endpoint is unknown")
	}
}
