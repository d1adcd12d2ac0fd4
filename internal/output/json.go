package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/chrisdamba/nutriparse/internal/models"
)

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) error {
	if err := EncodePlan(c.w, rec.Plan); err != nil {
		return fmt.Errorf("failed to write plan to stdout: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// JSONFileOutput writes each plan to path, or to <folder>/<document>.json when
// path is empty.
type JSONFileOutput struct {
	path   string
	folder string
	names  fileNamer
}

func NewJSONFileOutput(path string) *JSONFileOutput {
	return &JSONFileOutput{path: path}
}

func NewJSONFolderOutput(folder string) *JSONFileOutput {
	return &JSONFileOutput{folder: folder}
}

func (j *JSONFileOutput) target(rec *models.StoredPlan) string {
	if j.path != "" {
		return j.path
	}
	return filepath.Join(j.folder, j.names.name(rec, ".json"))
}

func (j *JSONFileOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) (err error) {
	path := j.target(rec)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := EncodePlan(file, rec.Plan); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("JSON generato: %s", path)
	return nil
}

func (j *JSONFileOutput) Close() error { return nil }
