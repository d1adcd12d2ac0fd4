package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/chrisdamba/nutriparse/internal/extract"
	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/parser"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func (a *app) newBatchCmd() *cobra.Command {
	var outDir string

	batchCmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Parses every supported document in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.OutputFolder
			}
			return a.runBatch(cmd, args[0], outDir)
		},
	}
	batchCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for the generated plans (default from config output_folder)")
	return batchCmd
}

func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", dir, err)
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() || !extract.Supported(e.Name()) {
			continue
		}
		docs = append(docs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(docs)
	return docs, nil
}

func (a *app) runBatch(cmd *cobra.Command, dir, outDir string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docs, err := listDocuments(dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		log.Printf("no documents found in %s", dir)
		return nil
	}

	p, err := a.newParser()
	if err != nil {
		return err
	}
	repo, err := openRepository(ctx, a.cfg)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}
	dest, err := output.NewDestination(ctx, a.cfg, output.Target{Folder: outDir}, output.Sinks{Repository: repo})
	if err != nil {
		return err
	}
	defer dest.Close()

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("parsing plans"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	failures := 0
	for _, doc := range docs {
		if err := a.parseOne(ctx, p, dest, doc); err != nil {
			log.Printf("skipping %s: %v", doc, err)
			failures++
		}
		bar.Add(1)
	}
	bar.Finish()

	log.Printf("parsed %d of %d documents into %s", len(docs)-failures, len(docs), outDir)
	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(docs))
	}
	return nil
}

func (a *app) parseOne(ctx context.Context, p *parser.Parser, dest output.PlanDestination, doc string) error {
	text, err := extract.File(doc)
	if err != nil {
		return err
	}
	return dest.WritePlan(ctx, output.NewRecord(p.Parse(text, a.cfg.UserEmail), doc))
}
