package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewRunDirUnique(t *testing.T) {
	rm := NewRunManager(t.TempDir(), "/mnt/share", "Delta-Report_")

	first, err := rm.NewRunDir()
	if err != nil {
		t.Fatalf("NewRunDir: %v", err)
	}
	second, err := rm.NewRunDir()
	if err != nil {
		t.Fatalf("NewRunDir: %v", err)
	}
	if first == second {
		t.Errorf("two run dirs share the same name: %s", first)
	}
	for _, dir := range []string{first, second} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("run dir %s not created: %v", dir, err)
		}
	}
}

func TestResolveInputPath(t *testing.T) {
	rm := NewRunManager("./Results", "/mnt/share", "Delta-Report_")

	if got := rm.ResolveInputPath("charts/q1.xlsx"); got != filepath.Join("/mnt/share", "charts/q1.xlsx") {
		t.Errorf("relative path resolved to %q", got)
	}
	if got := rm.ResolveInputPath("/abs/chart.xlsx"); got != "/abs/chart.xlsx" {
		t.Errorf("absolute path resolved to %q", got)
	}
}

func TestReportFileName(t *testing.T) {
	rm := NewRunManager("./Results", "/mnt/share", "Delta-Report_")

	tests := []struct{ in, want string }{
		{"/mnt/share/Bump Chart Q1.xlsm", "Delta-Report_Bump Chart Q1.xlsx"},
		{"chart.xlsx", "Delta-Report_chart.xlsx"},
		{"noext", "Delta-Report_noext.xlsx"},
	}
	for _, tt := range tests {
		if got := rm.ReportFileName(tt.in); got != tt.want {
			t.Errorf("ReportFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteErrorLog(t *testing.T) {
	runDir := t.TempDir()

	path, err := WriteErrorLog(nil, runDir)
	if err != nil || path != "" {
		t.Errorf("empty entries: path = %q, err = %v", path, err)
	}

	entries := []ErrorLogEntry{
		{Timestamp: time.Date(2026, 8, 30, 14, 15, 2, 0, time.UTC), FileName: "chart.xlsx", Message: "boom"},
	}
	path, err = WriteErrorLog(entries, runDir)
	if err != nil {
		t.Fatalf("WriteErrorLog: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "chart.xlsx: boom") {
		t.Errorf("error log = %q", data)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q", data)
	}
}
