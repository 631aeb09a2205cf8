package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextOutput_Planned(t *testing.T) {
	var buf bytes.Buffer
	output := NewTextOutput(&buf)

	output.Planned(testSubnets, testGateway)
	output.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if got := strings.Fields(lines[0]); strings.Join(got, " ") != "172.16.0.0/16 via 10.8.0.1 a.example.com,b.example.com" {
		t.Errorf("line 0 = %q", lines[0])
	}
	// Columns are aligned
	if strings.Index(lines[0], "via") != strings.Index(lines[1], "via") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTextOutput_Resolved(t *testing.T) {
	var buf bytes.Buffer
	output := NewTextOutput(&buf)

	output.Resolved(testResolved)

	got := strings.TrimSpace(buf.String())
	if strings.Count(got, "\n") != 0 || !strings.Contains(got, "nope.invalid") || strings.Contains(got, "a.example.com") {
		t.Errorf("Resolved() output = %q, want only the failure", got)
	}
}

func TestTextOutput_Installed(t *testing.T) {
	var buf bytes.Buffer
	output := NewTextOutput(&buf)

	output.Installed(testInstalled, testGateway)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "ok") {
		t.Errorf("line 0 = %q, want ok status", lines[0])
	}
	if !strings.HasSuffix(lines[1], "failed: file exists") {
		t.Errorf("line 1 = %q, want failed status", lines[1])
	}
}
