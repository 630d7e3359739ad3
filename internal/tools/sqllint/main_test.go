package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("package q\n\n"+body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunAcceptsMarkedQueries(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "ok.go", "const QOne = `--sql 6f1c2a4e-0b7d-4c55-9e1a-8d2f3b4c5d6e\nselect 1;\n`\n\nconst Label = \"not sql\"\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr %s", code, stderr.String())
	}
}

func TestRunReportsMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "bad.go", "const QBad = `select * from donations where id = $1`\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "QBad") || !strings.Contains(stderr.String(), "missing or invalid") {
		t.Fatalf("stderr = %s", stderr.String())
	}
}

func TestRunReportsDuplicateMarker(t *testing.T) {
	dir := t.TempDir()
	const m = "--sql 6f1c2a4e-0b7d-4c55-9e1a-8d2f3b4c5d6e"
	writeGo(t, dir, "a.go", "const QA = `"+m+"\nselect 1;\n`\n")
	writeGo(t, dir, "b.go", "const QB = `"+m+"\ndelete from donations;\n`\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "QB") || !strings.Contains(stderr.String(), "already used by QA") {
		t.Fatalf("stderr = %s", stderr.String())
	}
}

func TestRunSkipsTestFilesAndUnderscoreDirs(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "x_test.go", "const QT = `select 1`\n")
	hidden := filepath.Join(dir, "_ref")
	if err := os.Mkdir(hidden, 0o755); err != nil {
		t.Fatal(err)
	}
	writeGo(t, hidden, "y.go", "const QY = `select 1`\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr %s", code, stderr.String())
	}
}

func TestRepositoryQueriesAreMarked(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"../../sqlinline"}, &stderr); code != 0 {
		t.Fatalf("sqlinline has marker violations:\n%s", stderr.String())
	}
}
