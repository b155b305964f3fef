// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/dashboard"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
	"github.com/SeamWorks/seamctl/pkg/ux"
)

// requireLogin gives a direct answer before any request goes out; an
// expired credential is still caught server-side on the call itself.
func requireLogin(app *appContext) error {
	if !app.auth.IsAuthenticated() {
		return errors.New("not logged in. Run 'seamctl login' to access the dashboard")
	}
	return nil
}

func dashboardFilters() dashboard.Filters {
	return dashboard.Filters{
		Status:     flagFilterStatus,
		Department: flagFilterDepartment,
	}
}

// loadDashboard runs the three-way fetch behind a spinner.
func loadDashboard(ctx context.Context, app *appContext) (*dashboard.Aggregator, error) {
	agg := dashboard.NewAggregator(app.gw, app.db)
	err := ux.WithSpinner("Loading dashboard", func() error {
		return agg.LoadAll(ctx, dashboardFilters())
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// renderNotices shows the cached-data banner and one degraded line per
// failed resource the caller is about to display.
func renderNotices(dui ux.DashboardUI, agg *dashboard.Aggregator, resources ...string) {
	if cached, savedAt := agg.FromCache(); cached {
		dui.CachedNotice(savedAt)
	}
	for _, res := range resources {
		if err := agg.Err(res); err != nil {
			dui.DegradedNotice(res, err)
		}
	}
}

func runDashboardCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	agg, err := loadDashboard(ctx, app)
	if err != nil {
		return err
	}

	dui := ux.NewDashboardUI()
	renderNotices(dui, agg, agg.FailedResources()...)

	dui.SessionTable(agg.Sessions())
	dui.Analytics(agg.Analytics())

	state := agg.Clusters()
	lastRun, _ := dashboard.LastRunLabel(state)
	warning, _ := dashboard.StalenessWarning(state)
	dui.Clusters(state, lastRun, warning)
	return nil
}

func runSessionsCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	agg, err := loadDashboard(ctx, app)
	if err != nil {
		return err
	}

	dui := ux.NewDashboardUI()
	renderNotices(dui, agg, dashboard.ResourceSessions)
	dui.SessionTable(agg.Sessions())
	return nil
}

func runAnalyticsCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	agg, err := loadDashboard(ctx, app)
	if err != nil {
		return err
	}

	dui := ux.NewDashboardUI()
	renderNotices(dui, agg, dashboard.ResourceAnalytics)
	dui.Analytics(agg.Analytics())
	return nil
}

func runClustersCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	dui := ux.NewDashboardUI()
	agg := dashboard.NewAggregator(app.gw, app.db)

	if flagRunClusters {
		err := ux.WithSpinner("Running clustering", func() error {
			_, runErr := agg.RunClusters(ctx)
			return runErr
		})
		if err != nil {
			return err
		}
	} else {
		err := ux.WithSpinner("Loading clusters", func() error {
			return agg.LoadAll(ctx, dashboardFilters())
		})
		if err != nil {
			return err
		}
		renderNotices(dui, agg, dashboard.ResourceClusters)
	}

	state := agg.Clusters()
	lastRun, _ := dashboard.LastRunLabel(state)
	warning, _ := dashboard.StalenessWarning(state)
	dui.Clusters(state, lastRun, warning)
	return nil
}

func runSessionCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	loader := dashboard.NewLoader(app.gw)
	detail, err := loader.Detail(ctx, args[0])
	if err != nil {
		return describeNotFound(err, args[0])
	}

	ux.NewDashboardUI().Detail(detail)
	return nil
}

func runSummaryCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	loader := dashboard.NewLoader(app.gw)

	if flagGenerateSummary {
		var summary *datatypes.SummaryResponse
		err := ux.WithSpinner("Generating summary", func() error {
			s, genErr := loader.GenerateSummary(ctx, args[0])
			if genErr != nil {
				return genErr
			}
			summary = s
			return nil
		})
		if err != nil {
			return describeNotFound(err, args[0])
		}
		ux.NewDashboardUI().Summary(summary)
		return nil
	}

	s, err := loader.Summary(ctx, args[0])
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.NotFound() {
			ux.Info("No summary stored for this session. Re-run with --generate to create one.")
			return nil
		}
		return err
	}
	ux.NewDashboardUI().Summary(s)
	return nil
}

func runConversationCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	conv, err := dashboard.NewLoader(app.gw).Conversation(ctx, args[0])
	if err != nil {
		return describeNotFound(err, args[0])
	}

	ux.NewDashboardUI().Conversation(conv)
	return nil
}

func runExportCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	if err := requireLogin(app); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	loader := dashboard.NewLoader(app.gw)

	var payload *api.Payload
	err = ux.WithSpinner("Exporting session", func() error {
		p, expErr := loader.Export(ctx, args[0], flagExportFormat)
		if expErr != nil {
			return expErr
		}
		payload = p
		return nil
	})
	if err != nil {
		return describeNotFound(err, args[0])
	}

	path := flagExportOut
	if path == "" {
		path = payload.Filename
	}
	if path == "" {
		short := args[0]
		if len(short) > 8 {
			short = short[:8]
		}
		path = fmt.Sprintf("session_%s.%s", short, flagExportFormat)
	}

	if err := os.WriteFile(path, payload.Body, 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	slog.Info("session exported", "session_id", args[0], "path", path, "bytes", len(payload.Body))
	ux.KeyValue("Exported to", path)
	return nil
}

func describeNotFound(err error, sessionID string) error {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.NotFound() {
		return fmt.Errorf("no session found with id %s", sessionID)
	}
	return err
}
