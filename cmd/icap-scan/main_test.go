package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

type fakeScanner struct {
	verdicts map[string]bool
	err      error
}

func (f fakeScanner) ScanFile(path string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.verdicts[path], nil
}

func TestScanPathsAllClean(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}

	blocked, err := scanPaths(fakeScanner{verdicts: map[string]bool{"a.txt": true, "b.txt": true}},
		[]string{"a.txt", "b.txt"}, out)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if blocked {
		t.Fatal("Blocked reported for clean files")
	}
	if out.String() != "a.txt: clean\nb.txt: clean\n" {
		t.Fatalf("Output is %q", out.String())
	}
}

func TestScanPathsReportsBlocked(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}

	blocked, err := scanPaths(fakeScanner{verdicts: map[string]bool{"a.txt": true, "eicar.com": false}},
		[]string{"a.txt", "eicar.com"}, out)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if !blocked {
		t.Fatal("Blocked verdict not reported")
	}
	if !strings.Contains(out.String(), "eicar.com: blocked\n") {
		t.Fatalf("Output is %q", out.String())
	}
}

func TestScanPathsStopsOnError(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}

	scanErr := errors.New("connection lost")
	_, err := scanPaths(fakeScanner{err: scanErr}, []string{"a.txt", "b.txt"}, out)
	if !errors.Is(err, scanErr) {
		t.Fatalf("Error is %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("Output is %q", out.String())
	}
}
