package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"discset/internal/config"
	"discset/internal/engine"
	"discset/internal/history"
	"discset/internal/logging"
	"discset/internal/notify"
	"discset/internal/preflight"
	"discset/internal/runlock"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var reportFormat string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Infer multi-disk sets and write playlists or catalog patches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			dry := cfg.Run.DryRun
			if cmd.Flags().Changed("dry-run") {
				dry = dryRun
			}
			format := strings.ToLower(strings.TrimSpace(reportFormat))
			if format != "" && format != "json" && format != "yaml" {
				return fmt.Errorf("--report must be json or yaml, got %q", reportFormat)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return executeRun(signalCtx, ctx, cfg, dry, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report decisions without writing playlists or catalogs")
	cmd.Flags().StringVar(&reportFormat, "report", "", "Print the full run report as json or yaml instead of the summary")
	return cmd
}

func executeRun(runCtx context.Context, ctx *commandContext, cfg *config.Config, dryRun bool, format string, out, errOut io.Writer) error {
	if failed := preflight.Failed(preflight.RunAll(cfg, dryRun)); len(failed) > 0 {
		p := newPrinter(errOut)
		for _, r := range failed {
			p.status(r.Name, statusError, r.Detail)
		}
		return fmt.Errorf("preflight failed: %s", failed[0].Name)
	}

	if !dryRun {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	logger, err := ctx.logger(cfg, errOut)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	report, runErr := engine.New(engine.OptionsFromConfig(cfg, dryRun), logger).Run(runCtx)
	if report == nil {
		return runErr
	}

	if cfg.History.Enabled {
		if err := recordHistory(cfg.History.Path, report, runErr); err != nil {
			logging.WarnWithContext(logger, "run not recorded in history", "history_record_failed",
				logging.String(logging.FieldErrorHint, "check the history database path or delete it to start a new ledger"),
				logging.String(logging.FieldImpact, "the run is missing from `discset history`"),
				logging.Error(err),
			)
		}
	}

	notifyRun(runCtx, notify.NewService(cfg), report, runErr, logger)

	if format != "" {
		if err := report.Encode(out, format); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		writeRunSummary(newPrinter(out), report, cfg.Paths.RomsDir)
	}
	return runErr
}

func notifyRun(runCtx context.Context, svc notify.Service, report *engine.Report, runErr error, logger *slog.Logger) {
	if errors.Is(runErr, context.Canceled) {
		return
	}
	ctx := context.WithoutCancel(runCtx)
	var err error
	if runErr != nil {
		err = svc.RunFailed(ctx, report, runErr)
	} else {
		err = svc.RunCompleted(ctx, report)
	}
	if err != nil {
		logging.WarnWithContext(logger, "run notification not delivered", "notify_failed",
			logging.String(logging.FieldErrorHint, "check [notify] ntfy_topic and network access"),
			logging.String(logging.FieldImpact, "no ntfy message for this run"),
			logging.Error(err),
		)
	}
}

func recordHistory(path string, report *engine.Report, runErr error) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	// The run context may already be cancelled; recording must still happen.
	return store.Record(context.Background(), report, runErr)
}

func writeRunSummary(p *printer, report *engine.Report, romsDir string) {
	title := "Run " + shortID(report.RunID)
	if report.DryRun {
		title += " (dry run)"
	}
	p.section(title)
	p.status("ROM directory", statusInfo, romsDir)
	p.status("Platforms", statusInfo, strconv.Itoa(len(report.Platforms)))
	p.status("Candidates", statusInfo, strconv.Itoa(report.Candidates))
	writes := statusInfo
	if report.Writes() > 0 {
		writes = statusOK
	}
	p.status("Writes", writes, strconv.Itoa(report.Writes()))
	if report.Aborted {
		p.status("Run", statusError, "aborted before catalogs were written")
	}

	if len(report.Outcomes) > 0 {
		rows := make([][]string, 0, len(report.Outcomes))
		for _, o := range report.Outcomes {
			rows = append(rows, []string{o.Platform, o.Set, string(o.Kind), outcomeDetail(o, romsDir)})
		}
		p.blank()
		p.table(tableSpec{headers: []string{"Platform", "Set", "Outcome", "Detail"}, rows: rows})
		for _, kc := range report.Counts() {
			p.status(string(kc.Kind), outcomeStatus(kc.Kind), strconv.Itoa(kc.Count))
		}
	}

	if len(report.Reconciliations) > 0 || len(report.Flushes) > 0 {
		p.blank()
		p.section("Catalogs")
		for _, r := range report.Reconciliations {
			msg := fmt.Sprintf("%d targets, %d hidden, %d unhidden, %d missing", r.Targets, r.Hidden, r.Unhidden, r.Missing)
			p.status(r.Platform, statusInfo, msg)
		}
		for _, f := range report.Flushes {
			kind, msg := flushStatus(f, report.DryRun)
			p.status(f.Platform, kind, msg)
		}
	}

	if len(report.Orphans) > 0 || len(report.Unmanaged) > 0 {
		p.blank()
		if n := len(report.Orphans); n > 0 {
			p.status("Unselected disks", statusWarn, strconv.Itoa(n))
		}
		for _, u := range report.Unmanaged {
			p.status("Unmanaged playlist", statusInfo, fmt.Sprintf("%s (%d entries)", relPath(romsDir, u.Path), u.Entries))
		}
	}
}

func outcomeDetail(o engine.Outcome, romsDir string) string {
	var parts []string
	if o.Path != "" {
		parts = append(parts, relPath(romsDir, o.Path))
	}
	if o.DuplicateOf != "" {
		parts = append(parts, "duplicate of "+o.DuplicateOf)
	}
	if len(o.MissingDisks) > 0 {
		disks := make([]string, len(o.MissingDisks))
		for i, d := range o.MissingDisks {
			disks[i] = strconv.Itoa(d)
		}
		parts = append(parts, "missing disk "+strings.Join(disks, ", "))
	}
	if n := len(o.MissingRecords); n > 0 {
		parts = append(parts, fmt.Sprintf("%d records missing", n))
	}
	if o.Detail != "" {
		parts = append(parts, o.Detail)
	}
	return strings.Join(parts, "; ")
}

func flushStatus(f engine.Flush, dryRun bool) (statusKind, string) {
	switch {
	case f.Error != "":
		return statusError, f.Error
	case dryRun:
		return statusInfo, "would be written"
	case f.Written && f.Backup != "":
		return statusOK, "written, backup " + filepath.Base(f.Backup)
	case f.Written:
		return statusOK, "written"
	default:
		return statusInfo, "unchanged"
	}
}

func relPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
