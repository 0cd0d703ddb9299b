package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "msg.md", "from file\n")

	tests := []struct {
		name    string
		args    []string
		src     inputSource
		want    string
		wantErr bool
	}{
		{name: "stdin", args: nil, want: "from stdin\n"},
		{name: "dash is stdin", args: []string{"-"}, want: "from stdin\n"},
		{name: "file", args: []string{path}, want: "from file\n"},
		{name: "missing file", args: []string{path + ".nope"}, wantErr: true},
		{name: "clipboard with file", args: []string{path}, src: inputSource{Clipboard: true}, wantErr: true},
		{name: "primary with file", args: []string{path}, src: inputSource{Primary: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader("from stdin\n"))
			got, err := readInput(context.Background(), cmd, tt.args, tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("readInput() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("readInput: %v", err)
			}
			if got != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadResultsFile(t *testing.T) {
	if results, err := loadResultsFile(""); err != nil || results != nil {
		t.Fatalf("empty path = %v, %v", results, err)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "results.json", `[{"file_path": "a.go", "status": "applied", "estimated_line": 3}]`)
	results, err := loadResultsFile(path)
	if err != nil {
		t.Fatalf("loadResultsFile: %v", err)
	}
	if len(results) != 1 || results[0].FilePath != "a.go" || results[0].EstimatedLine == nil || *results[0].EstimatedLine != 3 {
		t.Errorf("results = %+v", results)
	}

	bad := writeFile(t, dir, "bad.yaml", "- file_path: a.go\n  status: exploded\n")
	if _, err := loadResultsFile(bad); err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("bad status error = %v", err)
	}
}
