package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	configFile, logLevel = "", ""

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRenderCommandFromStdin(t *testing.T) {
	dir := t.TempDir()
	results := writeFile(t, dir, "results.yaml", "- file_path: main.go\n  status: failed\n  reason: search text not found\n")

	out, err := execute(t, testMessage, "render", "--format", "html", "--results", results, "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`data-status="failed"`, "search text not found"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	if _, err := execute(t, "", "render", "--format", "pdf"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDiffCommandUnified(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "a\nb\n")
	newPath := writeFile(t, dir, "new.txt", "a\nc\n")

	out, err := execute(t, "", "diff", "--format", "unified", oldPath, newPath)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	for _, want := range []string{"@@", "-b\n", "+c\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("unified diff missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("non-terminal output should not be colorized: %q", out)
	}
}

func TestDiffCommandJSON(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "same.txt", "x\n")

	out, err := execute(t, "", "diff", "--format", "json", p, p)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, `"kind": "context"`) {
		t.Errorf("json diff = %s", out)
	}
}

func TestBlocksCommand(t *testing.T) {
	dir := t.TempDir()
	msg := writeFile(t, dir, "reply.md", testMessage)

	out, err := execute(t, "", "blocks", msg)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if out != " 1  main.go  lines 3-8  +1 -1\n" {
		t.Errorf("blocks output = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "ui:\n  theme: dracula\n")

	out, err := execute(t, "", "config", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "theme: dracula") || !strings.Contains(out, "# "+cfgPath) {
		t.Errorf("config output =\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := execute(t, "", "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.Contains(string(data), "char_diff: true") {
		t.Errorf("written config =\n%s", data)
	}

	if _, err := execute(t, "", "config", "init", "--config", path); err == nil {
		t.Error("second init without --force should fail")
	}
}
