// Package report renders a run outcome as the weekly text report or as JSON.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	service "github.com/okian/pitpool/internal/app"
	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/standings"
	"github.com/okian/pitpool/internal/domain/types"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by New for a format it cannot render.
var ErrUnknownFormat = errors.New("unknown report format")

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithFormat selects the output format. An empty format is ignored.
func WithFormat(format string) Option {
	return func(w *Writer) {
		if format != "" {
			w.format = strings.ToLower(format)
		}
	}
}

// Writer renders outcomes to an io.Writer.
type Writer struct {
	out    io.Writer
	format string
}

// New creates a Writer. The default format is text.
func New(out io.Writer, opts ...Option) (*Writer, error) {
	w := &Writer{out: out, format: FormatText}

	for _, opt := range opts {
		opt(w)
	}

	switch w.format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
	}
	return w, nil
}

// Write renders one outcome.
func (w *Writer) Write(o *service.Outcome) error {
	doc := Build(o)
	if w.format == FormatJSON {
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return writeText(w.out, o, doc)
}

// Build converts an outcome into report rows. Weekly rows follow the pick
// order; standings rows follow season totals.
func Build(o *service.Outcome) types.Report {
	doc := types.Report{
		RunID:           o.RunID,
		QualifyingBonus: o.QualifyingBonus,
		Results:         make([]types.ResultEntry, len(o.Results)),
		Weekly:          make([]types.WeeklyEntry, len(o.PickOrder)),
		Standings:       make([]types.StandingEntry, len(o.Standings)),
		Notes:           o.Notes(),
	}
	for i, r := range o.Results {
		doc.Results[i] = types.ResultEntry{
			Finish:    r.Finish,
			Start:     r.Start,
			CarNumber: r.CarNumber,
			Driver:    r.Driver,
			Points:    r.Points,
			Status:    r.Status,
		}
	}
	for i, p := range o.PickOrder {
		best := o.BestCars[p.Name]
		delta, _ := o.Delta(p.Name)
		doc.Weekly[i] = types.WeeklyEntry{
			Rank:         i + 1,
			Name:         p.Name,
			WeeklyPoints: p.WeeklyPoints,
			SeasonTotal:  p.SeasonTotal,
			BestCar:      best.Car,
			BestCarFound: best.Found,
			Payout:       delta.Amount,
		}
	}
	for i, s := range o.Standings {
		doc.Standings[i] = types.StandingEntry{
			Rank:        i + 1,
			Name:        s.Name,
			SeasonTotal: s.SeasonTotal,
			Balance:     s.Balance,
			BalanceText: standings.FormatBalance(s.Balance),
		}
	}
	return doc
}

// EmailLine renders one results e-mail line, e.g.
// "#4, Dave with 84 takes..........6".
func EmailLine(e types.WeeklyEntry) string {
	return fmt.Sprintf("#%d, %s with %d takes..........%d", e.Rank, e.Name, e.WeeklyPoints, e.BestCar)
}

func writeText(out io.Writer, o *service.Outcome, doc types.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Calculating results. Qualifying bonus=%t\n\n", doc.QualifyingBonus)

	b.WriteString("Results:\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Fin\tStart\tCar\tPoints\tStatus\t")
	for _, r := range doc.Results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t\n", r.Finish, r.Start, r.CarNumber, r.Points, r.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(o.Roster) > 0 {
		b.WriteString("\nPicks and current totals:\n")
		if err := writePlayers(&b, o.Roster); err != nil {
			return err
		}
	}

	b.WriteString("\nPoints and updated totals:\n")
	if err := writePlayers(&b, o.Weekly); err != nil {
		return err
	}

	b.WriteString("\nResults E-Mail:\n")
	for i := len(doc.Weekly) - 1; i >= 0; i-- {
		b.WriteString(EmailLine(doc.Weekly[i]))
		b.WriteByte('\n')
	}

	b.WriteString("\nYTD Standings (by total points):\n\n")
	for _, line := range standings.Lines(o.Standings) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(doc.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range doc.Notes {
			b.WriteString(n)
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func writePlayers(w io.Writer, players []model.Player) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Player\tPicks\tPoints\tTotal\tBalance")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			p.Name, formatPicks(p), p.WeeklyPoints, p.SeasonTotal, standings.FormatBalance(p.Balance))
	}
	return tw.Flush()
}

func formatPicks(p model.Player) string {
	parts := make([]string, len(p.Picks))
	for i, c := range p.Picks {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}
