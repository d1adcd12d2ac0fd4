package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/chrisdamba/nutriparse/internal/extract"
	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds what every subcommand shares: its own viper instance and the
// config decoded from it before the command runs.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *models.Config
}

// NewRootCmd builds the command tree. Each call gets fresh flag and config state.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "nutriparse <doc_path> [output_path] [user_email]",
		Short: "Turns a diet plan document into structured JSON",
		Long: `nutriparse reads a nutritionist's diet plan (PDF or extracted text), finds the meals,
food options, carb cycling rules and notes, and writes the plan as JSON to a file or stdout.`,
		Args:              cobra.RangeArgs(1, 3),
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runParse,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./.nutriparse.yaml)")
	pf.String("format", "", "Output format: json or parquet")
	pf.String("email", "", "User email stored on the plan")
	pf.String("s3-bucket", "", "Also upload plans to this S3 bucket")
	pf.Bool("kafka-enabled", false, "Also publish plans to Kafka")
	pf.String("db-dsn", "", "Store plans in this database (sqlite path or postgres DSN)")
	pf.String("db-driver", "", "Database driver: sqlite or postgres")

	a.bindFlag(rootCmd, "output_format", "format")
	a.bindFlag(rootCmd, "user_email", "email")
	a.bindFlag(rootCmd, "cloud_storage.bucket_name", "s3-bucket")
	a.bindFlag(rootCmd, "kafka_enabled", "kafka-enabled")
	a.bindFlag(rootCmd, "database.dsn", "db-dsn")
	a.bindFlag(rootCmd, "database.driver", "db-driver")

	rootCmd.AddCommand(a.newBatchCmd(), a.newServeCmd(), a.newGenerateCmd())
	return rootCmd
}

func (a *app) bindFlag(cmd *cobra.Command, key, flag string) {
	cobra.CheckErr(a.v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)))
}

func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	// arguments are valid by now; later failures are not usage errors
	cmd.SilenceUsage = true

	cfg, err := models.LoadConfig(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", used)
	}
	a.cfg = cfg
	return nil
}

func (a *app) newParser() (*parser.Parser, error) {
	return parser.New(a.cfg.Vocabulary)
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docPath := args[0]
	outputPath := a.cfg.OutputPath
	if len(args) > 1 {
		outputPath = args[1]
	}
	email := a.cfg.UserEmail
	if len(args) > 2 {
		email = args[2]
	}

	text, err := extract.File(docPath)
	if err != nil {
		return err
	}
	p, err := a.newParser()
	if err != nil {
		return err
	}
	plan := p.Parse(text, email)

	repo, err := openRepository(ctx, a.cfg)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	target := output.Target{Path: outputPath}
	if outputPath == "" {
		target.Stdout = cmd.OutOrStdout()
	}
	dest, err := output.NewDestination(ctx, a.cfg, target, output.Sinks{Repository: repo})
	if err != nil {
		return err
	}

	writeErr := dest.WritePlan(ctx, output.NewRecord(plan, docPath))
	if err := dest.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	return writeErr
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
