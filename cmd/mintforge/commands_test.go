package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mintforge/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "[OK] sqlite")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Ledger.APIToken = "super-secret"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireNotContains(t, out, "super-secret")
	requireContains(t, out, "********")
	requireContains(t, out, "[workflow]")
}

func TestTemplateCommandWritesHeader(t *testing.T) {
	out, _, err := runCLI(t, []string{"template", "--trait", "eyes", "--trait", "trait_hat", "--rows", "1"}, "")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	if lines[0] != "name,description,filename,token_id,external_url,youtube_url,trait_eyes,trait_hat" {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestPlanCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.WriteAssetDir(t, testManifest, "alpha.png", "gamma.png", "extra.png")
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), []byte("hello"))

	out, _, err := runCLI(t, []string{"plan", dir, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var view planView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if view.Rows != 3 || len(view.Matched) != 2 || len(view.Unmatched) != 1 {
		t.Fatalf("unexpected plan: %+v", view)
	}
	if view.Unmatched[0].Row != 2 {
		t.Fatalf("expected row 2 unmatched, got %+v", view.Unmatched)
	}
	if len(view.UnusedAssets) != 1 || view.UnusedAssets[0] != "extra.png" {
		t.Fatalf("unexpected unused assets %v", view.UnusedAssets)
	}
	if len(view.NonImages) != 1 || view.NonImages[0] != "notes.txt" {
		t.Fatalf("unexpected non-image assets %v", view.NonImages)
	}
	if len(env.services.uploads) != 0 {
		t.Fatal("plan must not upload")
	}
}

func TestPlanCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.WriteAssetDir(t, testManifest, "alpha.png", "gamma.png")

	out, _, err := runCLI(t, []string{"plan", dir}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "(no match)")
	requireContains(t, out, "[OK] 2 of 3 rows")
	requireContains(t, out, "[WARN] 1 rows have no matching image")
}

func TestRecordsListWithoutStore(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"records", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("records list: %v", err)
	}
	requireContains(t, out, "No local records")
}

func TestRecordsListAfterMint(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.WriteAssetDir(t, testManifest, "alpha.png", "beta.png", "gamma.png")
	if _, _, err := runCLI(t, mintArgs(dir), env.configPath); err != nil {
		t.Fatalf("mint: %v", err)
	}

	out, _, err := runCLI(t, []string{"records", "list", "--collection", "col-1", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("records list: %v", err)
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}

	out, _, err = runCLI(t, []string{"records", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("records list: %v", err)
	}
	requireContains(t, out, "0xtx-alpha")
}

func TestTestNotifyCommand(t *testing.T) {
	var title string
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
		_, _ = io.Copy(io.Discard, r.Body)
	}))
	defer ntfy.Close()

	env := setupCLITestEnv(t, testsupport.WithNtfyTopic(ntfy.URL))
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if title != "mintforge - Test" {
		t.Fatalf("unexpected title %q", title)
	}
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notification not sent")
}

func TestCheckCommandProbesServices(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Ledger:")
	requireContains(t, out, "[OK] Reachable")
}
