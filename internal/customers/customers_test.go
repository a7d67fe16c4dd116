package customers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndLookup(t *testing.T) {
	path := writeList(t, "Customer_Code,Customer_Name\nGM01,General Motors\nlear01,Lear Corporation\n")

	dir, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := dir.NameForCode("gm01"); got != "General Motors" {
		t.Errorf("NameForCode(gm01) = %q", got)
	}
	if got := dir.NameForCode(" GM01 "); got != "General Motors" {
		t.Errorf("NameForCode with noise = %q", got)
	}
	if got := dir.NameForCode("toyota01"); got != "" {
		t.Errorf("unknown code resolved to %q", got)
	}
	if len(dir.Names) != 2 || dir.Names[0] != "General Motors" {
		t.Errorf("Names = %v", dir.Names)
	}
}

func TestLoadReorderedColumns(t *testing.T) {
	path := writeList(t, "Exported,Customer_Name,Customer_Code\nx,Adient,AD01\n")

	dir, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := dir.NameForCode("ad01"); got != "Adient" {
		t.Errorf("NameForCode(ad01) = %q", got)
	}
}

func TestLoadSkipsIncompleteRows(t *testing.T) {
	path := writeList(t, "Customer_Code,Customer_Name\nGM01,General Motors\nshort\n,Nameless\nNC01,\n")

	dir, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dir.Names) != 1 {
		t.Errorf("Names = %v, want only General Motors", dir.Names)
	}
}

func TestLoadMissingHeaders(t *testing.T) {
	path := writeList(t, "Code,Name\nGM01,General Motors\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for missing headers")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
