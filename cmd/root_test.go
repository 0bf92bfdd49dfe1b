package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// run executes the CLI in-process against an isolated local storage root
// and returns stdout.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	// No cloud attempts from tests, whatever the outer environment holds.
	for _, key := range []string{
		"AGENTSTORE_STORAGE_ACCOUNT", "AZURE_STORAGE_ACCOUNT",
		"AGENTSTORE_STORAGE_CONTAINER", "AGENTSTORE_FORCE_CLOUD",
		"WEBSITE_INSTANCE_ID", "FUNCTIONS_WORKER_RUNTIME",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("AGENTSTORE_LOCAL_ROOT", root)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPutGetRoundTrip(t *testing.T) {
	root := t.TempDir()

	src := root + "/input.json"
	if err := os.WriteFile(src, []byte(`{"k":1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, root, "put", "agents", "x.json", src)
	if err != nil {
		t.Fatalf("put error = %v", err)
	}
	if !strings.Contains(out, "wrote agents/x.json") || !strings.Contains(out, "local") {
		t.Errorf("put output = %q", out)
	}

	out, err = run(t, root, "get", "agents", "x.json")
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if out != `{"k":1}` {
		t.Errorf("get output = %q, want %q", out, `{"k":1}`)
	}
}

func TestGetMissingFileFails(t *testing.T) {
	_, err := run(t, t.TempDir(), "get", "agents", "ghost.json")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("get of missing file error = %v, want not found", err)
	}
}

func TestLsEmptyDir(t *testing.T) {
	out, err := run(t, t.TempDir(), "ls", "agents")
	if err != nil {
		t.Fatalf("ls error = %v", err)
	}
	if !strings.Contains(out, "empty") {
		t.Errorf("ls output = %q, want empty marker", out)
	}
}

func TestAgentsCommandReportsBoth(t *testing.T) {
	root := t.TempDir()

	good := root + "/good.json"
	if err := os.WriteFile(good, []byte(`{"name":"good","entrypoint":"GoodAgent","version":"1.0.0"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, root, "put", "agents", "good.json", good); err != nil {
		t.Fatal(err)
	}
	bad := root + "/bad.json"
	if err := os.WriteFile(bad, []byte(`{broken`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, root, "put", "agents", "bad.json", bad); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, root, "agents")
	if err != nil {
		t.Fatalf("agents error = %v", err)
	}
	if !strings.Contains(out, "good") || !strings.Contains(out, "GoodAgent") {
		t.Errorf("agents output missing loaded manifest: %q", out)
	}
	if !strings.Contains(out, "1 manifest(s) failed to load") {
		t.Errorf("agents output missing failure report: %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "agentstore") {
		t.Errorf("version output = %q", out)
	}
}
