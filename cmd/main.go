package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/pitpool/internal/adapters/parser"
	"github.com/okian/pitpool/internal/adapters/report"
	repository "github.com/okian/pitpool/internal/adapters/repository"
	app "github.com/okian/pitpool/internal/app"
	"github.com/okian/pitpool/internal/config"
	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/payout"
	"github.com/okian/pitpool/pkg/logger"
	"github.com/okian/pitpool/pkg/metrics"
)

// Process exit codes, following sysexits.h where one fits.
const (
	exitOK           = 0
	exitFailure      = 1
	exitUsage        = 64
	exitMalformed    = 65
	exitUnresolved   = 66
	exitInsufficient = 67
)

// storeArg as the totals file reads the prior standings from the configured store.
const storeArg = "-"

const usageLine = "usage: pitpool [flags] <resultsFile> <picksFile> <totalsFile> [<qualifyingCanceled y|n>]"

const qualifyingPrompt = "Was qualifying canceled? <y|n>: "

var errUsage = errors.New("usage")

// args are the parsed command line.
type args struct {
	results            string
	picks              string
	totals             string
	qualifyingCanceled string // empty when the prompt must ask
	out                string
	outSet             bool
	format             string
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one scoring run and returns the process exit code.
func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a, err := parseArgs(argv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, usageLine)
		return exitUsage
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitFailure
	}

	// Initialize logging
	if err := logger.Init(logger.WithOutput(stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("cli")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if a.format == "" {
		a.format = cfg.ReportFormat
	}
	if !a.outSet {
		a.out = cfg.Store.Path
	}

	canceled, err := qualifyingCanceled(a.qualifyingCanceled, stdin, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	rw, err := report.New(stdout, report.WithFormat(a.format))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	store, closeStore, err := openStore(ctx, cfg, a.out)
	if err != nil {
		log.Error(ctx, "failed to open standings store", logger.Error(err))
		return exitFailure
	}
	defer closeStore()

	in, err := readInput(ctx, cfg, a, store)
	if err != nil {
		log.Error(ctx, "failed to parse pool files", logger.Error(err))
		return exitCode(err)
	}
	in.QualifyingBonus = !canceled

	svc := app.New(
		app.WithLogger(logger.Named("pipeline")),
		app.WithSchedule(payout.Schedule{
			Ante:   cfg.Payout.Ante,
			First:  cfg.Payout.First,
			Second: cfg.Payout.Second,
			Third:  cfg.Payout.Third,
		}),
		app.WithFrontRowCutoff(cfg.FrontRowCutoff),
		app.WithPickOrderFrom(cfg.PickOrderFrom),
		app.WithStore(store),
	)

	outcome, runErr := svc.Run(ctx, in)
	runID := ""
	if outcome != nil {
		runID = outcome.RunID
	}
	exportMetrics(ctx, log, cfg.Metrics, runID)
	if runErr != nil {
		return exitCode(runErr)
	}

	if err := rw.Write(outcome); err != nil {
		log.Error(ctx, "failed to write report", logger.Error(err))
		return exitFailure
	}
	return exitOK
}

func parseArgs(argv []string, stderr io.Writer) (args, error) {
	var a args
	fs := flag.NewFlagSet("pitpool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.out, "out", "", "write next race's standings to this file (default store.path)")
	fs.StringVar(&a.format, "format", "", "report format: text or json (default report_format)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usageLine)
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return a, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "out" {
			a.outSet = true
		}
	})

	rest := fs.Args()
	if len(rest) < 3 || len(rest) > 4 {
		return a, fmt.Errorf("%w: expected 3 or 4 arguments, got %d", errUsage, len(rest))
	}
	a.results, a.picks, a.totals = rest[0], rest[1], rest[2]
	if len(rest) == 4 {
		a.qualifyingCanceled = rest[3]
	}
	return a, nil
}

// qualifyingCanceled interprets a y/n answer, prompting on stdin when the
// answer was not given on the command line.
func qualifyingCanceled(answer string, stdin io.Reader, prompt io.Writer) (bool, error) {
	if answer == "" {
		fmt.Fprint(prompt, qualifyingPrompt)
		scanner := bufio.NewScanner(stdin)
		if !scanner.Scan() {
			return false, fmt.Errorf("%w: no answer to %q", errUsage, strings.TrimSpace(qualifyingPrompt))
		}
		answer = scanner.Text()
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.HasPrefix(answer, "y"):
		return true, nil
	case strings.HasPrefix(answer, "n"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: qualifying canceled must be y or n, got %q", errUsage, answer)
	}
}

func readInput(ctx context.Context, cfg *config.Config, a args, store repository.Store) (app.Input, error) {
	p := parser.New(parser.WithStatuses(cfg.Statuses()))

	results, err := p.ResultsFile(ctx, a.results)
	if err != nil {
		return app.Input{}, err
	}
	picks, err := p.PicksFile(ctx, a.picks)
	if err != nil {
		return app.Input{}, err
	}

	var prior []model.Standing
	if a.totals == storeArg {
		if store == nil {
			return app.Input{}, fmt.Errorf("%w: totals %q needs a configured store", errUsage, storeArg)
		}
		prior, err = store.Load(ctx)
	} else {
		prior, err = p.StandingsFile(ctx, a.totals)
	}
	if err != nil {
		return app.Input{}, err
	}

	return app.Input{Results: results, Picks: picks, Standings: prior}, nil
}

// openStore returns the configured standings store, or nil when standings
// are only printed.
func openStore(ctx context.Context, cfg *config.Config, out string) (repository.Store, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.StorePostgres:
		s, err := repository.OpenPostgres(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		if out == "" {
			return nil, noop, nil
		}
		return repository.NewFileStore(out), noop, nil
	}
}

// exportMetrics writes or pushes the run metrics. Export failures are logged
// and never change the exit code.
func exportMetrics(ctx context.Context, log logger.Logger, cfg config.MetricsConfig, runID string) {
	m := metrics.Default()
	if cfg.Textfile != "" {
		if err := m.WriteTextfile(cfg.Textfile); err != nil {
			log.Warn(ctx, "metrics textfile export failed", logger.Error(err))
		}
	}
	if cfg.Pushgateway != "" {
		if err := m.Push(ctx, cfg.Pushgateway, cfg.Job, runID); err != nil {
			log.Warn(ctx, "metrics push failed", logger.Error(err))
		}
	}
}

// exitCode maps a run error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, model.ErrMalformedRecord):
		return exitMalformed
	case errors.Is(err, model.ErrUnresolvedPlayer):
		return exitUnresolved
	case errors.Is(err, model.ErrInsufficientPlayers):
		return exitInsufficient
	default:
		return exitFailure
	}
}
