package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/satishbabariya/hdbwrap/internal/adapters/database"
	"github.com/satishbabariya/hdbwrap/internal/adapters/telemetry"
	"github.com/satishbabariya/hdbwrap/internal/debug"
	"github.com/satishbabariya/hdbwrap/internal/queryfile"
	"github.com/satishbabariya/hdbwrap/internal/ui"
	"github.com/satishbabariya/hdbwrap/internal/watch"
	"github.com/satishbabariya/hdbwrap/query/memdb"
	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/runtime"
	"github.com/spf13/cobra"
)

type runOptions struct {
	fixture     string
	useDB       bool
	commit      bool
	watch       bool
	asJSON      bool
	metricsAddr string
}

// NewRunCommand creates the run command.
func NewRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <query-file>",
		Short: "Run a query file",
		Long: `Run a query file and print the result.

By default the query runs against an empty in-memory engine, seeded from
--fixture when given. With --db it runs against the configured database
inside a transaction that is rolled back unless --commit is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.fixture, "fixture", "f", "", "Seed data loaded before the query")
	cmd.Flags().BoolVar(&opts.useDB, "db", false, "Run against the configured database")
	cmd.Flags().BoolVar(&opts.commit, "commit", false, "Commit the changes (with --db)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when the query or fixture file changes")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print rows as JSON")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (with --db)")

	return cmd
}

func (a *app) run(cmd *cobra.Command, path string, opts *runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tcfg := a.cfg.TelemetryConfig()
	if opts.metricsAddr != "" && tcfg.Type != string(telemetry.TypePrometheus) {
		tcfg.Type = string(telemetry.TypePrometheus)
	}
	telem, err := telemetry.New(tcfg)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		stop := serveMetrics(opts.metricsAddr, telem.Handler())
		defer stop()
	}

	once := func() error {
		return a.runOnce(ctx, cmd, path, opts, telem)
	}
	if !opts.watch {
		return once()
	}

	files := []string{path}
	if opts.fixture != "" {
		files = append(files, opts.fixture)
	}
	w, err := watch.NewWatcher(files, func() error {
		if err := once(); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	}, watch.WithErrorHandler(func(err error) {
		ui.PrintError("watch: %v", err)
	}))
	if err != nil {
		return err
	}
	ui.PrintInfo("Watching %s for changes... (Press Ctrl+C to stop)", path)
	return w.Run(ctx)
}

func (a *app) runOnce(ctx context.Context, cmd *cobra.Command, path string, opts *runOptions, rec runtime.Recorder) error {
	doc, err := queryfile.ReadFile(path)
	if err != nil {
		return err
	}
	var fixture *queryfile.Fixture
	if opts.fixture != "" {
		if fixture, err = queryfile.ReadFixture(opts.fixture); err != nil {
			return err
		}
	}

	exec := func(db runtime.DB) (model.Result, error) {
		if fixture != nil {
			if err := fixture.Load(ctx, db); err != nil {
				return model.Result{}, err
			}
		}
		return doc.Run(ctx, db)
	}

	var res model.Result
	if opts.useDB {
		res, err = database.WithDB(ctx, a.cfg.Database(), func(w *runtime.Wrapper) (model.Result, error) {
			res, err := exec(w)
			if err != nil || !opts.commit {
				return res, errors.Join(err, w.Rollback(ctx, true))
			}
			return res, w.Commit(ctx, false)
		}, runtime.WithRecorder(rec))
	} else {
		res, err = exec(memdb.New())
	}
	if err != nil {
		return err
	}
	return render(cmd, doc, res, opts.asJSON)
}

func render(cmd *cobra.Command, doc *queryfile.Document, res model.Result, asJSON bool) error {
	rowsOut := doc.Operation == queryfile.OpSelect || (doc.Operation == queryfile.OpInsert && len(doc.Unique) > 0)

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if rowsOut {
			return enc.Encode(res.Rows)
		}
		return enc.Encode(map[string]int64{"rowsAffected": res.RowsAffected})
	}

	if rowsOut {
		return ui.PrintRows(res.Rows)
	}
	ui.PrintSuccess("%s %s: %d row(s)", doc.Operation, doc.Table, res.RowsAffected)
	return nil
}

// serveMetrics serves handler on addr until the returned func is called.
func serveMetrics(addr string, handler http.Handler) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ui.PrintError("metrics server: %v", err)
		}
	}()
	ui.PrintInfo("Serving metrics on http://%s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			debug.Warn("metrics server shutdown", "error", err)
		}
	}
}
