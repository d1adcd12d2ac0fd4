package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"piano.pdf", false},
		{"PIANO.PDF", false},
		{"piano.txt", false},
		{"piano.docx", true},
		{"piano", true},
	}
	for _, tt := range tests {
		_, err := ForPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ForPath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
		}
	}
}

func TestFileReadsPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piano.txt")
	if err := os.WriteFile(path, []byte("Colazione:\r\n- 30 g Avena\fSpuntino\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if want := "Colazione:\n- 30 g Avena\nSpuntino\n"; got != want {
		t.Errorf("File() = %q, want %q", got, want)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "assente.pdf")); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vuoto.txt")
	if err := os.WriteFile(path, []byte(" \n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if strings.TrimSpace(got) != "" {
		t.Errorf("File() = %q, want blank text", got)
	}
}

func TestClean(t *testing.T) {
	in := "Note\n\n\n\n---PAGE BREAK---Colazione:\r\n"
	if got, want := Clean(in), "Note\n\nColazione:\n"; got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}
