package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the parser over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	serveCmd.Flags().String("addr", "", "Listen address (default from config server_addr)")
	cobra.CheckErr(a.v.BindPFlag("server_addr", serveCmd.Flags().Lookup("addr")))
	return serveCmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	// parsed plans go to the configured sinks; no local file copy
	var dest output.PlanDestination
	multi, err := output.NewDestination(ctx, a.cfg, output.Target{}, output.Sinks{Repository: repo})
	switch {
	case errors.Is(err, output.ErrNoDestination):
	case err != nil:
		return err
	default:
		dest = multi
		defer multi.Close()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(a.cfg.ServerAddr, p, dest, repo)
	return srv.Start(ctx)
}
