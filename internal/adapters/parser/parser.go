// Package parser reads the pool's three line-oriented input files: race
// results, player picks and prior standings.
package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/standings"
)

// Input sources, used in LineError.
const (
	SourceResults   = "results"
	SourcePicks     = "picks"
	SourceStandings = "standings"
)

const commentPrefix = "#"

var (
	picksLine     = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z '\-]*?)\s*\.+(.*)$`)
	standingsLine = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z '\-]*?)\s*\.+\s*(\d+)\s*\.+\s*(\S+)\s*$`)
	carNumber     = regexp.MustCompile(`\d+`)
)

// LineError reports an input line that does not have the expected shape.
// It matches model.ErrMalformedRecord with errors.Is.
type LineError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("invalid line %d in %s file (%s): %q", e.Line, e.Source, e.Reason, e.Text)
}

// Unwrap returns model.ErrMalformedRecord.
func (e *LineError) Unwrap() error {
	return model.ErrMalformedRecord
}

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithStatuses sets the status tags accepted at the end of a results line.
// An empty list is ignored.
func WithStatuses(statuses []string) Option {
	return func(p *Parser) {
		if len(statuses) > 0 {
			p.statuses = slices.Clone(statuses)
		}
	}
}

// Parser turns input lines into domain records.
type Parser struct {
	statuses    []string
	resultsLine *regexp.Regexp
}

// New creates a Parser. Without WithStatuses it accepts Running, Accident and
// Engine.
func New(opts ...Option) *Parser {
	p := &Parser{
		statuses: []string{"Running", "Accident", "Engine"},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.resultsLine = compileResultsLine(p.statuses)
	return p
}

// compileResultsLine builds the results pattern:
// finish start car [driver text] points status [anything].
func compileResultsLine(statuses []string) *regexp.Regexp {
	quoted := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s = strings.TrimSpace(s); s != "" {
			quoted = append(quoted, regexp.QuoteMeta(s))
		}
	}
	// Longer tags first so "Rear Gear" wins over a hypothetical "Rear".
	slices.SortStableFunc(quoted, func(a, b string) int { return len(b) - len(a) })
	return regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+(\d+)\s+(?:(.*?)\s+)?(\d+)\s+(?i:(` +
		strings.Join(quoted, "|") + `))\b.*$`)
}

// Results parses race results, one car per non-blank line.
func (p *Parser) Results(ctx context.Context, r io.Reader) ([]model.RaceResult, error) {
	var out []model.RaceResult
	err := scanLines(ctx, r, func(n int, line string) error {
		m := p.resultsLine.FindStringSubmatch(line)
		if m == nil {
			return &LineError{Source: SourceResults, Line: n, Text: line, Reason: "unrecognized results line"}
		}
		finish, _ := strconv.Atoi(m[1])
		start, _ := strconv.Atoi(m[2])
		car, _ := strconv.Atoi(m[3])
		points, err := strconv.Atoi(m[5])
		if err != nil {
			return &LineError{Source: SourceResults, Line: n, Text: line, Reason: "points out of range"}
		}
		if finish < 1 || start < 1 {
			return &LineError{Source: SourceResults, Line: n, Text: line, Reason: "positions start at 1"}
		}
		out = append(out, model.RaceResult{
			CarNumber: car,
			Start:     start,
			Finish:    finish,
			Points:    points,
			Status:    p.canonicalStatus(m[6]),
			Driver:    strings.TrimSpace(m[4]),
		})
		return nil
	})
	return out, err
}

// canonicalStatus returns the configured spelling of a matched status tag.
func (p *Parser) canonicalStatus(s string) string {
	for _, st := range p.statuses {
		if strings.EqualFold(strings.TrimSpace(st), s) {
			return strings.TrimSpace(st)
		}
	}
	return s
}

// Picks parses player picks: a name, a dotted leader and four car numbers.
func (p *Parser) Picks(ctx context.Context, r io.Reader) ([]model.Picks, error) {
	var out []model.Picks
	err := scanLines(ctx, r, func(n int, line string) error {
		m := picksLine.FindStringSubmatch(line)
		if m == nil {
			return &LineError{Source: SourcePicks, Line: n, Text: line, Reason: "expected name followed by dots"}
		}
		cars := carNumber.FindAllString(m[2], -1)
		if len(cars) != model.PicksPerPlayer {
			return &LineError{Source: SourcePicks, Line: n, Text: line,
				Reason: fmt.Sprintf("expected %d car numbers, found %d", model.PicksPerPlayer, len(cars))}
		}
		pk := model.Picks{Name: model.NormalizeName(m[1])}
		for i, c := range cars {
			v, err := strconv.Atoi(c)
			if err != nil {
				return &LineError{Source: SourcePicks, Line: n, Text: line, Reason: "car number out of range"}
			}
			pk.Cars[i] = v
		}
		out = append(out, pk)
		return nil
	})
	return out, err
}

// Standings parses carry-forward standings in the standings.FormatLine format.
func (p *Parser) Standings(ctx context.Context, r io.Reader) ([]model.Standing, error) {
	var out []model.Standing
	err := scanLines(ctx, r, func(n int, line string) error {
		m := standingsLine.FindStringSubmatch(line)
		if m == nil {
			return &LineError{Source: SourceStandings, Line: n, Text: line, Reason: "expected name, total and balance"}
		}
		total, err := strconv.Atoi(m[2])
		if err != nil {
			return &LineError{Source: SourceStandings, Line: n, Text: line, Reason: "total out of range"}
		}
		balance, err := standings.ParseBalance(m[3])
		if err != nil {
			return &LineError{Source: SourceStandings, Line: n, Text: line, Reason: err.Error()}
		}
		out = append(out, model.Standing{Name: model.NormalizeName(m[1]), SeasonTotal: total, Balance: balance})
		return nil
	})
	return out, err
}

// ResultsFile opens path and parses it with Results.
func (p *Parser) ResultsFile(ctx context.Context, path string) ([]model.RaceResult, error) {
	return parseFile(ctx, path, p.Results)
}

// PicksFile opens path and parses it with Picks.
func (p *Parser) PicksFile(ctx context.Context, path string) ([]model.Picks, error) {
	return parseFile(ctx, path, p.Picks)
}

// StandingsFile opens path and parses it with Standings.
func (p *Parser) StandingsFile(ctx context.Context, path string) ([]model.Standing, error) {
	return parseFile(ctx, path, p.Standings)
}

func parseFile[T any](ctx context.Context, path string, parse func(context.Context, io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", filepath.Clean(path), err)
	}
	defer func() { _ = f.Close() }()

	out, err := parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// scanLines calls fn with every non-blank, non-comment line and its 1-based number.
func scanLines(ctx context.Context, r io.Reader, fn func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
