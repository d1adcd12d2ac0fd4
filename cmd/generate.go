package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrisdamba/nutriparse/internal/factories"
	"github.com/spf13/cobra"
)

func (a *app) newGenerateCmd() *cobra.Command {
	var (
		count  int
		outDir string
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Writes synthetic diet plan documents as text, for trying the parser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory := &factories.DietPlanFactory{}
			if outDir == "" {
				for i := 0; i < count; i++ {
					fmt.Fprint(cmd.OutOrStdout(), factory.CreateDocument().Text())
				}
				return nil
			}
			if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				path := filepath.Join(outDir, fmt.Sprintf("piano_%03d.txt", i+1))
				if err := os.WriteFile(path, []byte(factory.CreateDocument().Text()), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
			}
			return nil
		},
	}
	generateCmd.Flags().IntVar(&count, "count", 1, "Number of documents to generate")
	generateCmd.Flags().StringVar(&outDir, "out-dir", "", "Write documents here instead of stdout")
	return generateCmd
}
