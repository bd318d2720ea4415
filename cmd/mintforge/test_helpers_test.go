package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mintforge/internal/config"
	"mintforge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	services   *fakeServices
}

// fakeServices stands in for the storage and ledger endpoints.
type fakeServices struct {
	server *httptest.Server

	mu       sync.Mutex
	uploads  []string
	mints    []string
	failMint map[string]bool
}

func newFakeServices(t *testing.T) *fakeServices {
	t.Helper()
	f := &fakeServices{failMint: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.uploads = append(f.uploads, header.Filename)
		f.mu.Unlock()
		writeTestJSON(w, map[string]string{"uri": "https://cdn.test/" + header.Filename})
	})
	mux.HandleFunc("POST /mint", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Metadata struct {
				Name string `json:"name"`
			} `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.mints = append(f.mints, req.Metadata.Name)
		fail := f.failMint[req.Metadata.Name]
		f.mu.Unlock()
		if fail {
			http.Error(w, "execution reverted", http.StatusBadGateway)
			return
		}
		writeTestJSON(w, map[string]string{
			"transaction_id": "0xtx-" + strings.ToLower(req.Metadata.Name),
			"metadata_uri":   "ipfs://meta/" + req.Metadata.Name,
		})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	fake := newFakeServices(t)
	opts = append([]testsupport.ConfigOption{
		testsupport.WithServiceURLs(fake.server.URL+"/upload", fake.server.URL, ""),
		testsupport.WithLocalRecords(),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, services: fake}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
