package parser_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/pitpool/internal/adapters/parser"
	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

const resultsText = `
 1   3  48  Jimmie Johnson     Chevrolet  200  185  Running
 2   1  24  Jeff Gordon        Chevrolet  200  175  running
 3  12  11  Denny Hamlin       Toyota     199  165  Running
40   2  88  Dale Earnhardt Jr  Chevrolet   87   43  Accident  (lap 88)
41  20  2   167  Engine
`

func TestParser_Results(t *testing.T) {
	Convey("Given a results file", t, func() {
		p := parser.New()
		ctx := context.Background()

		Convey("When it is parsed", func() {
			results, err := p.Results(ctx, strings.NewReader(resultsText))

			Convey("Then every car is read with points taken before the status", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 5)
				So(results[0], ShouldResemble, model.RaceResult{
					CarNumber: 48, Start: 3, Finish: 1, Points: 185, Status: "Running",
					Driver: "Jimmie Johnson     Chevrolet  200",
				})
				So(results[1].Status, ShouldEqual, "Running")
				So(results[3].CarNumber, ShouldEqual, 88)
				So(results[3].Points, ShouldEqual, 43)
				So(results[3].Status, ShouldEqual, "Accident")
			})

			Convey("And a line without driver text still parses", func() {
				So(results[4], ShouldResemble, model.RaceResult{
					CarNumber: 2, Start: 20, Finish: 41, Points: 167, Status: "Engine",
				})
			})
		})

		Convey("When a line has an unknown status", func() {
			_, err := p.Results(ctx, strings.NewReader("1 2 3 Someone 40 Transmission\n"))

			Convey("Then the line is malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				var lineErr *parser.LineError
				So(errors.As(err, &lineErr), ShouldBeTrue)
				So(lineErr.Line, ShouldEqual, 1)
				So(lineErr.Source, ShouldEqual, parser.SourceResults)
			})
		})

		Convey("When the status is configured", func() {
			p := parser.New(parser.WithStatuses([]string{"Running", "Transmission", "Rear Gear"}))
			results, err := p.Results(ctx, strings.NewReader("1 2 3 Someone 40 transmission\n2 4 5 Other 38 Rear Gear\n"))

			Convey("Then it is accepted with the configured spelling", func() {
				So(err, ShouldBeNil)
				So(results[0].Status, ShouldEqual, "Transmission")
				So(results[1].Status, ShouldEqual, "Rear Gear")
			})
		})

		Convey("When a position is zero", func() {
			_, err := p.Results(ctx, strings.NewReader("0 2 3 Someone 40 Running\n"))
			So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := p.Results(cctx, strings.NewReader(resultsText))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestParser_Picks(t *testing.T) {
	Convey("Given a picks file", t, func() {
		p := parser.New()
		ctx := context.Background()

		Convey("When every line has four cars", func() {
			text := "Alice.........48, 24, 11, 88\n# late entry\n  Bob Smith ....2 9 17 31  \n"
			picks, err := p.Picks(ctx, strings.NewReader(text))

			Convey("Then names are trimmed and cars kept in order", func() {
				So(err, ShouldBeNil)
				So(picks, ShouldResemble, []model.Picks{
					{Name: "Alice", Cars: [4]int{48, 24, 11, 88}},
					{Name: "Bob Smith", Cars: [4]int{2, 9, 17, 31}},
				})
			})
		})

		Convey("When a line has three cars", func() {
			_, err := p.Picks(ctx, strings.NewReader("Alice....1 2 3\n"))

			Convey("Then the line is malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "expected 4 car numbers, found 3")
			})
		})

		Convey("When a line has five cars", func() {
			_, err := p.Picks(ctx, strings.NewReader("Alice....1 2 3 4 5\n"))
			So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
		})

		Convey("When a line has no dotted leader", func() {
			_, err := p.Picks(ctx, strings.NewReader("Alice 1 2 3 4\n"))
			So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
		})
	})
}

func TestParser_Standings(t *testing.T) {
	Convey("Given standings written for the next race", t, func() {
		p := parser.New()
		ctx := context.Background()
		written := []model.Standing{
			{Name: "Alice", SeasonTotal: 120, Balance: 10},
			{Name: "Bob", SeasonTotal: 95, Balance: 0},
		}
		lines := standings.Lines(written)

		Convey("Then they render in the carry-forward format", func() {
			So(lines, ShouldResemble, []string{"Alice.........120.....+$10", "Bob.........95.....Even"})
		})

		Convey("When they are read back", func() {
			read, err := p.Standings(ctx, strings.NewReader(strings.Join(lines, "\n")))

			Convey("Then season totals and balances survive the round trip", func() {
				So(err, ShouldBeNil)
				So(read, ShouldResemble, written)
			})
		})

		Convey("When a balance is negative", func() {
			read, err := p.Standings(ctx, strings.NewReader("Carol ..... 80 ..... -$15\n"))
			So(err, ShouldBeNil)
			So(read[0], ShouldResemble, model.Standing{Name: "Carol", SeasonTotal: 80, Balance: -15})
		})

		Convey("When a balance is not a money amount", func() {
			_, err := p.Standings(ctx, strings.NewReader("Carol.....80.....lots\n"))

			Convey("Then the line is malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "invalid balance")
			})
		})
	})
}

func TestParser_Files(t *testing.T) {
	Convey("Given input files on disk", t, func() {
		dir := t.TempDir()
		p := parser.New()
		ctx := context.Background()

		write := func(name, content string) string {
			path := filepath.Join(dir, name)
			So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)
			return path
		}

		Convey("When every file is well formed", func() {
			results, err := p.ResultsFile(ctx, write("results.txt", resultsText))
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 5)

			picks, err := p.PicksFile(ctx, write("picks.txt", "Alice....1 2 3 4\n"))
			So(err, ShouldBeNil)
			So(picks, ShouldHaveLength, 1)

			prior, err := p.StandingsFile(ctx, write("totals.txt", "Alice.....10.....Even\n"))
			So(err, ShouldBeNil)
			So(prior, ShouldHaveLength, 1)
		})

		Convey("When a file is malformed", func() {
			_, err := p.PicksFile(ctx, write("picks.txt", "\nAlice....1 2\n"))

			Convey("Then the error names the file and line", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "picks.txt")
				So(err.Error(), ShouldContainSubstring, "invalid line 2")
			})
		})

		Convey("When a file is missing", func() {
			_, err := p.ResultsFile(ctx, filepath.Join(dir, "nope.txt"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}
