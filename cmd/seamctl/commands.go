// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "seamctl",
		Short: "A CLI for running and reviewing SEAM diagnostic interviews",
		Long: `seamctl runs bilingual (English/Arabic) SEAM diagnostic interviews
against a local interview service and gives facilitators a dashboard
over collected sessions, field notes, and dysfunction clusters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupApp()
		},
	}
	flagPersonality string
	flagAPIRoot     string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Authenticate for dashboard access",
		Long: `Exchanges the facilitator password for a bearer token and stores it
locally until it expires. Interview commands work without logging in;
dashboard commands require it.`,
		Args: cobra.NoArgs,
		RunE: runLoginCommand,
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored credential",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCommand,
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show authentication state",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCommand,
	}

	interviewCmd = &cobra.Command{
		Use:   "interview",
		Short: "Run a diagnostic interview",
		Long: `Starts an anonymous interview session and opens the conversation
loop. Answers may be typed in English or Arabic; type 'exit' (or press
Ctrl+D) to close the interview and receive the session summary.`,
		Args: cobra.NoArgs,
		RunE: runInterviewCommand,
	}
	flagDepartment  string
	flagRole        string
	flagLang        string
	flagParticipant string

	interviewStatusCmd = &cobra.Command{
		Use:   "status [session-id]",
		Short: "Show the progress of an interview session",
		Args:  cobra.ExactArgs(1),
		RunE:  runInterviewStatusCommand,
	}
	interviewLogCmd = &cobra.Command{
		Use:   "log [session-id]",
		Short: "Show locally archived interview transcripts",
		Long: `Without an argument, lists the transcripts archived on this machine.
With a session id, prints that conversation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInterviewLogCommand,
	}

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Review collected sessions, analytics, and clusters",
		Long: `Loads the facilitator dashboard: session list, category analytics,
and dysfunction clusters. Requires login. When the service is
unreachable the last loaded dashboard is shown from the local cache.`,
		Args: cobra.NoArgs,
		RunE: runDashboardCommand,
	}
	flagFilterStatus     string
	flagFilterDepartment string

	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "List interview sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCommand,
	}
	sessionCmd = &cobra.Command{
		Use:   "session [session-id]",
		Short: "Show one session's field notes and summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionCommand,
	}
	analyticsCmd = &cobra.Command{
		Use:   "analytics",
		Short: "Show category and tag analytics",
		Args:  cobra.NoArgs,
		RunE:  runAnalyticsCommand,
	}
	clustersCmd = &cobra.Command{
		Use:   "clusters",
		Short: "Show dysfunction clusters across sessions",
		Args:  cobra.NoArgs,
		RunE:  runClustersCommand,
	}
	flagRunClusters bool

	summaryCmd = &cobra.Command{
		Use:   "summary [session-id]",
		Short: "Show or generate a session summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummaryCommand,
	}
	flagGenerateSummary bool

	conversationCmd = &cobra.Command{
		Use:   "conversation [session-id]",
		Short: "Show a session's full conversation",
		Args:  cobra.ExactArgs(1),
		RunE:  runConversationCommand,
	}
	exportCmd = &cobra.Command{
		Use:   "export [session-id]",
		Short: "Export a session to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCommand,
	}
	flagExportFormat string
	flagExportOut    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPersonality, "personality", "",
		"Output personality: full, standard, minimal, or machine. Defaults to terminal detection.")
	rootCmd.PersistentFlags().StringVar(&flagAPIRoot, "api-root", "",
		"Interview service API root. Overrides config and SEAMCTL_API_ROOT.")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	rootCmd.AddCommand(interviewCmd)
	interviewCmd.Flags().StringVar(&flagDepartment, "department", "", "Department to record for this session.")
	interviewCmd.Flags().StringVar(&flagRole, "role", "", "Role level: operational, managerial, or executive.")
	interviewCmd.Flags().StringVar(&flagLang, "lang", "", "Language preference: en, ar, or auto.")
	interviewCmd.Flags().StringVar(&flagParticipant, "participant", "", "Participant code. Generated when omitted.")
	interviewCmd.AddCommand(interviewStatusCmd)
	interviewCmd.AddCommand(interviewLogCmd)

	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.PersistentFlags().StringVar(&flagFilterStatus, "status", "",
		"Filter sessions by status: active or completed.")
	dashboardCmd.PersistentFlags().StringVar(&flagFilterDepartment, "dept", "",
		"Filter sessions by department.")
	dashboardCmd.AddCommand(sessionsCmd)
	dashboardCmd.AddCommand(sessionCmd)
	dashboardCmd.AddCommand(analyticsCmd)
	dashboardCmd.AddCommand(clustersCmd)
	clustersCmd.Flags().BoolVar(&flagRunClusters, "run", false, "Run clustering before showing results.")
	dashboardCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&flagGenerateSummary, "generate", false, "Generate the summary if none is stored.")
	dashboardCmd.AddCommand(conversationCmd)
	dashboardCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "json", "Export format: json or csv.")
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "Output path. Defaults to the server-suggested filename.")
}

// signalContext returns a context cancelled by SIGINT or SIGTERM, so
// long calls unwind through the normal shutdown paths.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
