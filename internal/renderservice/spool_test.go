package renderservice

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	logx "notifykit/pkg/logx"
)

func writeSpoolFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestSpoolSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSpoolFile(t, dir, "b.json", `[
		{"id": "n2", "template": {"type": "sms", "content": "Second"}}
	]`)
	writeSpoolFile(t, dir, "a.json", `[
		{"id": "n1", "template": {"type": "sms", "content": "Hello ((name))"}, "values": {"name": "Jo"}}
	]`)
	writeSpoolFile(t, dir, "notes.txt", "not a batch")

	items, err := SpoolSource(dir, logx.Nop())(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	// files are consumed in name order
	if diff := cmp.Diff([]string{"n1", "n2"}, ids); diff != "" {
		t.Errorf("item order mismatch (-want +got):\n%s", diff)
	}
	if v, ok := items[0].Values.Get("name"); !ok || v != "Jo" {
		t.Errorf("values not carried over: %v", items[0].Values)
	}

	for _, name := range []string{"a.json.done", "b.json.done", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s after consumption: %v", name, err)
		}
	}

	// a second fire finds nothing new
	items, err = SpoolSource(dir, logx.Nop())(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("second read returned %d items, want 0", len(items))
	}
}

func TestSpoolSourceRejectsBadFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSpoolFile(t, dir, "bad.json", `{"not": "a batch"}`)
	writeSpoolFile(t, dir, "noid.json", `[{"template": {"type": "sms", "content": "hi"}}]`)
	writeSpoolFile(t, dir, "ok.json", `[{"id": "n1", "template": {"type": "sms", "content": "hi"}}]`)

	items, err := SpoolSource(dir, logx.Nop())(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "n1" {
		t.Errorf("items = %v", items)
	}
	for _, name := range []string{"bad.json.rejected", "noid.json.rejected", "ok.json.done"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestSpoolSourceMissingDir(t *testing.T) {
	t.Parallel()
	_, err := SpoolSource(filepath.Join(t.TempDir(), "nope"), logx.Nop())(context.Background())
	if err == nil || !strings.Contains(err.Error(), "read spool") {
		t.Errorf("error = %v, want read spool failure", err)
	}
}
