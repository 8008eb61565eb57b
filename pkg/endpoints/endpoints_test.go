package endpoints

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefaults(t *testing.T) {
	reg, err := Defaults("https://api.example.com/v1/")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	want := map[string]string{
		KeyProjects:        "https://api.example.com/v1/projects",
		KeyProject:         "https://api.example.com/v1/projects",
		KeyProjectMeta:     "https://api.example.com/v1/projects/meta",
		KeyProjectStatuses: "https://api.example.com/v1/projects/statuses",
	}
	for key, url := range want {
		if got := reg.Resolve(key); got != url {
			t.Fatalf("Resolve(%s) = %s, want %s", key, got, url)
		}
	}
	if got := reg.Resolve("unknown"); got != "" {
		t.Fatalf("unknown key resolved to %s", got)
	}
}

func TestLoadYAMLJoinsRelativeAndKeepsAbsolute(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "endpoints.yaml")
	content := `
base_url: https://api.example.com
endpoints:
  projects: /projects
  project: /project/
  projectMeta: https://stats.example.com/projectMeta
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write endpoints file: %v", err)
	}

	reg, err := Load(file, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reg.Resolve(KeyProjects); got != "https://api.example.com/projects" {
		t.Fatalf("projects = %s", got)
	}
	if got := reg.Resolve(KeyProject); got != "https://api.example.com/project/" {
		t.Fatalf("project = %s", got)
	}
	if got := reg.Resolve(KeyProjectMeta); got != "https://stats.example.com/projectMeta" {
		t.Fatalf("projectMeta = %s", got)
	}
	if keys := reg.Keys(); len(keys) != 3 || keys[0] != KeyProject {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestLoadJSONUsesFallbackBase(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "endpoints.json")
	if err := os.WriteFile(file, []byte(`{"endpoints":{"projects":"projects"}}`), 0o644); err != nil {
		t.Fatalf("write endpoints file: %v", err)
	}

	reg, err := Load(file, "http://localhost:8080/api")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reg.Resolve(KeyProjects); got != "http://localhost:8080/api/projects" {
		t.Fatalf("projects = %s", got)
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml":    "endpoints: {}\n",
		"nobase.yaml":   "endpoints:\n  projects: /projects\n",
		"garbage.json":  "{not json",
		"blankkey.yaml": "base_url: https://x.example\nendpoints:\n  \"\": /p\n",
	}
	for name, content := range cases {
		file := filepath.Join(dir, name)
		if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := Load(file, ""); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load("", ""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestNewRejectsRelativeBase(t *testing.T) {
	if _, err := New("api/v1", map[string]string{KeyProjects: "projects"}); err == nil {
		t.Fatalf("expected error for relative base_url")
	}
}

func TestRegistryConcurrentReadsAndCopies(t *testing.T) {
	reg, err := Defaults("https://api.example.com")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if reg.Resolve(KeyProjects) == "" || len(reg.Keys()) != 4 {
					t.Error("registry read failed")
					return
				}
				all := reg.All()
				all[KeyProjects] = "mutated"
			}
		}()
	}
	wg.Wait()

	if got := reg.Resolve(KeyProjects); got != "https://api.example.com/projects" {
		t.Fatalf("All must return a copy, Resolve = %s", got)
	}
}
