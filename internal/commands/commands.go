// Package commands holds the project-gantt command line.
package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/TWRT/project-gantt/internal/chart"
	"github.com/TWRT/project-gantt/internal/client/odoo"
	"github.com/TWRT/project-gantt/internal/config"
	"github.com/TWRT/project-gantt/internal/host"
	"github.com/TWRT/project-gantt/internal/logging"
	"github.com/TWRT/project-gantt/internal/repository"
	"github.com/TWRT/project-gantt/internal/service"
)

type rootOptions struct {
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *log.Logger
}

func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "project-gantt",
		Short:         "Gantt chart view over Odoo project tasks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if o.envFile != "" {
				envFiles = append(envFiles, o.envFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if o.logLevel != "" {
				cfg.LogLevel = o.logLevel
			}
			o.cfg = cfg
			o.logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&o.envFile, "env-file", "", "read settings from this .env file instead of ./.env")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides GANTT_LOG_LEVEL)")

	addServe(cmd, o)
	addRender(cmd, o)
	return cmd
}

// app is the wired service graph shared by the subcommands.
type app struct {
	db            *sql.DB
	gantt         *service.GanttService
	notifications *host.Notifications
	actions       *host.Actions
}

func (o *rootOptions) newApp(persistView bool) (*app, error) {
	cfg := o.cfg

	chartOpts, err := config.LoadChartOptions(cfg.ChartFile)
	if err != nil {
		return nil, err
	}

	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	store := odoo.NewOdooClient(odoo.Config{
		BaseUrl:  cfg.OdooURL,
		Database: cfg.OdooDB,
		Login:    cfg.OdooLogin,
		Password: cfg.OdooPassword,
		Timeout:  cfg.StoreTimeout,
	})

	a := &app{
		db:            db,
		notifications: host.NewNotifications(0),
		actions:       host.NewActions(),
	}

	var views service.ViewStore
	if persistView {
		views = repository.NewSavedViewRepository(db)
	}

	a.gantt, err = service.NewGanttService(
		service.NewLoader(store),
		store,
		chart.SVGLibrary{},
		a.actions,
		a.notifications,
		repository.NewDateEditRepository(db),
		views,
		o.logger,
		service.GanttOptions{
			ViewName: cfg.ViewName,
			Chart:    chartOpts,
		},
	)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	err := a.gantt.Close()
	if dbErr := a.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

func Execute(ctx context.Context) error {
	return New().ExecuteContext(ctx)
}
