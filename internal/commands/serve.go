package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/TWRT/project-gantt/internal/api"
	"github.com/TWRT/project-gantt/internal/chart"
	"github.com/TWRT/project-gantt/internal/config"
	"github.com/TWRT/project-gantt/internal/service"
)

const shutdownTimeout = 5 * time.Second

func addServe(topLevel *cobra.Command, o *rootOptions) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Gantt view over HTTP.",
		Example: `
project-gantt serve
project-gantt serve --addr :9000 --env-file ./staging.env
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				o.cfg.Addr = addr
			}
			return o.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides GANTT_ADDR)")

	topLevel.AddCommand(cmd)
}

func (o *rootOptions) serve(ctx context.Context) error {
	logger := o.logger

	a, err := o.newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := tolerateInitError(logger, a.gantt.Init(ctx)); err != nil {
		return err
	}

	if o.cfg.ChartFile != "" {
		err := config.WatchChartOptions(ctx, o.cfg.ChartFile, a.gantt.Reconfigure, func(err error) {
			logger.Warn("ignoring chart options change", "file", o.cfg.ChartFile, "err", err)
		})
		if err != nil {
			return err
		}
		logger.Info("watching chart options", "file", o.cfg.ChartFile)
	}

	srv := &http.Server{
		Addr:              o.cfg.Addr,
		Handler:           api.SetupRouter(a.gantt, a.notifications, a.actions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// tolerateInitError lets the server start on failures the UI reports itself:
// a missing chart library and task rows with unparseable dates.
func tolerateInitError(logger *log.Logger, err error) error {
	var tsErr *service.TimestampError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chart.ErrLibraryUnavailable):
		logger.Warn("serving without a chart", "err", err)
		return nil
	case errors.As(err, &tsErr):
		logger.Warn("serving until the task dates are fixed", "task_id", tsErr.TaskId, "err", err)
		return nil
	}
	return err
}
