package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/repositories/sqlite"
	"github.com/google/go-cmp/cmp"
)

const document = "Piano alimentare\nNote\nEvitare zuccheri aggiunti nelle bevande\nColazione:\nProteine: (scegline uno)\n- 150 gr di Yogurt Greco 0%\nSpuntino\n*Pranzo\nProteine: (scegline uno)\n- 200 g Pollo\nCarboidrati: (scegline uno)\n- 80 g Riso (un pugno)\nGrassi: (scegline uno)\n- 10 g Olio\n"

func writeDocument(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootRequiresDocument(t *testing.T) {
	if _, err := execute(t); err == nil {
		t.Error("expected error without a document path")
	}
	if _, err := execute(t, "a", "b", "c", "d"); err == nil {
		t.Error("expected error with too many arguments")
	}
}

func TestRootWritesToStdout(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "piano.txt", document)

	out, err := execute(t, doc, "--email", "utente@example.com")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	var plan models.Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("stdout is not a plan: %v\n%s", err, out)
	}
	if plan.UserEmail != "utente@example.com" {
		t.Errorf("userEmail = %q", plan.UserEmail)
	}
	if _, ok := plan.Meals[models.MealDinner]; !ok {
		t.Error("expected cena in output")
	}
}

func TestRootWritesToOutputPath(t *testing.T) {
	dir := t.TempDir()
	doc := writeDocument(t, dir, "piano.txt", document)
	outPath := filepath.Join(dir, "out", "piano.json")

	out, err := execute(t, doc, outPath, "mario@example.com")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout should stay empty, got %q", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"userEmail": "mario@example.com"`) {
		t.Errorf("unexpected file content:\n%s", data)
	}
}

func TestRootStoresPlan(t *testing.T) {
	dir := t.TempDir()
	doc := writeDocument(t, dir, "piano.txt", document)
	dbPath := filepath.Join(dir, "plans.db")

	if _, err := execute(t, doc, "--db-driver", "sqlite", "--db-dsn", dbPath); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	repo, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	if n, err := repo.Count(context.Background()); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func TestRootEmptyDocumentGetsFallbackPlan(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "vuoto.txt", "")

	out, err := execute(t, doc)
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	var plan models.Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("stdout is not a plan: %v\n%s", err, out)
	}
	wantMeals := map[string]models.Meal{models.MealDinner: {}}
	if diff := cmp.Diff(wantMeals, plan.Meals); diff != "" {
		t.Errorf("meals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(models.DefaultVocabulary().FallbackNotes, plan.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func TestRootMissingDocument(t *testing.T) {
	if _, err := execute(t, filepath.Join(t.TempDir(), "assente.txt")); err == nil {
		t.Error("expected error for a missing document")
	}
}

func TestRootRejectsUnsupportedDocument(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "piano.docx", document)
	if _, err := execute(t, doc); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRootRejectsParquetToStdout(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "piano.txt", document)
	if _, err := execute(t, doc, "--format", "parquet"); err == nil {
		t.Error("expected error writing parquet to stdout")
	}
}

func TestBatchContinuesPastFailures(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "plans")
	writeDocument(t, in, "anna.txt", document)
	writeDocument(t, in, "bruno.md", document)
	writeDocument(t, in, "vuoto.txt", "   \n")
	writeDocument(t, in, "rotto.pdf", "not a pdf")
	writeDocument(t, in, "ignorato.docx", document)

	_, err := execute(t, "batch", in, "--out-dir", out)
	if err == nil || !strings.Contains(err.Error(), "1 of 4") {
		t.Errorf("execute() error = %v, want one failure out of four", err)
	}
	for _, name := range []string{"anna.json", "bruno.json", "vuoto.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "rotto.json")); !os.IsNotExist(err) {
		t.Error("failed document should not produce output")
	}
}

func TestBatchDocumentsWithSameName(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeDocument(t, in, "piano.md", document)
	writeDocument(t, in, "piano.txt", document)

	if _, err := execute(t, "batch", in, "--out-dir", out); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	for _, name := range []string{"piano.json", "piano.txt.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestBatchEmptyDirectory(t *testing.T) {
	if _, err := execute(t, "batch", t.TempDir(), "--out-dir", t.TempDir()); err != nil {
		t.Errorf("execute() error = %v", err)
	}
}

func TestGenerateThenBatch(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()

	if _, err := execute(t, "generate", "--count", "3", "--out-dir", docs); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if _, err := execute(t, "batch", docs, "--out-dir", out); err != nil {
		t.Fatalf("batch error = %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d plans, want 3", len(entries))
	}
}

func TestGenerateToStdout(t *testing.T) {
	out, err := execute(t, "generate")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(out, "*Pranzo") {
		t.Errorf("unexpected document:\n%s", out)
	}
}
