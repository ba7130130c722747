package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/pitpool/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const (
	resultsFile = `
1 1 1 Driver A 40 Running
2 2 2 Driver B 35 Running
3 5 3 Driver C 34 Running
4 4 4 Driver D 31 Running
5 3 5 Driver E 30 Running
6 6 6 Driver F 29 Running
7 7 7 Driver G 28 Accident
8 8 8 Driver H 27 Engine
`
	picksFile = `Alice....1 2 3 4
Bob....5 6 7 8
Carol....1 5 6 7
Dave....8 7 6 99
`
	totalsFile = `Alice.....100.....Even
Carol.....80.....-$5
Bob.....50.....Even
Dave.....10.....+$5
`
)

func writeInputs(t *testing.T, picks string) (dir, results, picksPath, totals string) {
	dir = t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}
	return dir, write("results.txt", resultsFile), write("picks.txt", picks), write("totals.txt", totalsFile)
}

func TestParseArgs(t *testing.T) {
	convey.Convey("Given command line arguments", t, func() {
		var stderr bytes.Buffer

		convey.Convey("When four positional arguments and flags are given", func() {
			a, err := parseArgs([]string{"-out", "next.txt", "-format", "json", "r", "p", "t", "n"}, &stderr)

			convey.Convey("Then all of them are read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.results, convey.ShouldEqual, "r")
				convey.So(a.picks, convey.ShouldEqual, "p")
				convey.So(a.totals, convey.ShouldEqual, "t")
				convey.So(a.qualifyingCanceled, convey.ShouldEqual, "n")
				convey.So(a.out, convey.ShouldEqual, "next.txt")
				convey.So(a.outSet, convey.ShouldBeTrue)
				convey.So(a.format, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When the qualifying answer is omitted", func() {
			a, err := parseArgs([]string{"r", "p", "t"}, &stderr)
			convey.So(err, convey.ShouldBeNil)
			convey.So(a.qualifyingCanceled, convey.ShouldBeEmpty)
			convey.So(a.outSet, convey.ShouldBeFalse)
		})

		convey.Convey("When too few arguments are given", func() {
			_, err := parseArgs([]string{"r", "p"}, &stderr)
			convey.So(errors.Is(err, errUsage), convey.ShouldBeTrue)
		})

		convey.Convey("When help is requested", func() {
			_, err := parseArgs([]string{"-help"}, &stderr)
			convey.So(errors.Is(err, flag.ErrHelp), convey.ShouldBeTrue)
			convey.So(stderr.String(), convey.ShouldContainSubstring, usageLine)
		})
	})
}

func TestQualifyingCanceled(t *testing.T) {
	convey.Convey("Given a qualifying answer", t, func() {
		var prompt bytes.Buffer

		convey.Convey("When it is given on the command line", func() {
			yes, err := qualifyingCanceled("Y", strings.NewReader(""), &prompt)
			convey.So(err, convey.ShouldBeNil)
			convey.So(yes, convey.ShouldBeTrue)

			no, err := qualifyingCanceled("no", strings.NewReader(""), &prompt)
			convey.So(err, convey.ShouldBeNil)
			convey.So(no, convey.ShouldBeFalse)
			convey.So(prompt.String(), convey.ShouldBeEmpty)
		})

		convey.Convey("When it is missing", func() {
			yes, err := qualifyingCanceled("", strings.NewReader("yes\n"), &prompt)

			convey.Convey("Then the user is prompted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(yes, convey.ShouldBeTrue)
				convey.So(prompt.String(), convey.ShouldEqual, qualifyingPrompt)
			})
		})

		convey.Convey("When stdin is empty", func() {
			_, err := qualifyingCanceled("", strings.NewReader(""), &prompt)
			convey.So(errors.Is(err, errUsage), convey.ShouldBeTrue)
		})

		convey.Convey("When the answer is neither yes nor no", func() {
			_, err := qualifyingCanceled("maybe", strings.NewReader(""), &prompt)
			convey.So(errors.Is(err, errUsage), convey.ShouldBeTrue)
		})
	})
}

func TestExitCode(t *testing.T) {
	convey.Convey("Given run errors", t, func() {
		convey.So(exitCode(nil), convey.ShouldEqual, exitOK)
		convey.So(exitCode(fmt.Errorf("picks.txt: %w", model.ErrMalformedRecord)), convey.ShouldEqual, exitMalformed)
		convey.So(exitCode(fmt.Errorf("roster: %w", model.ErrUnresolvedPlayer)), convey.ShouldEqual, exitUnresolved)
		convey.So(exitCode(fmt.Errorf("payout: %w", model.ErrInsufficientPlayers)), convey.ShouldEqual, exitInsufficient)
		convey.So(exitCode(errUsage), convey.ShouldEqual, exitUsage)
		convey.So(exitCode(errors.New("boom")), convey.ShouldEqual, exitFailure)
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given pool files on disk", t, func() {
		t.Setenv("PITPOOL_CONFIG", "")
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		convey.Convey("When the pool is scored with qualifying canceled", func() {
			dir, results, picks, totals := writeInputs(t, picksFile)
			next := filepath.Join(dir, "next.txt")
			code := run(ctx, []string{"-out", next, results, picks, totals, "y"}, strings.NewReader(""), &stdout, &stderr)

			convey.Convey("Then the report is printed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "#4, Dave with 84 takes..........6")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "#1, Alice with 140 takes..........1")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Picks and current totals:")
			})

			convey.Convey("Then next race's totals are written", func() {
				raw, err := os.ReadFile(next)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldContainSubstring,
					"Alice.........240.....+$15\nCarol.........207.....+$5\nBob.........164.....+$5\nDave.........94.....Even\n")
			})
		})

		convey.Convey("When the qualifying answer comes from the prompt", func() {
			_, results, picks, totals := writeInputs(t, picksFile)
			code := run(ctx, []string{"-format", "json", results, picks, totals}, strings.NewReader("n\n"), &stdout, &stderr)

			convey.Convey("Then the bonus is applied", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stderr.String(), convey.ShouldContainSubstring, qualifyingPrompt)
				convey.So(stdout.String(), convey.ShouldContainSubstring, `"qualifying_bonus": true`)
				convey.So(stdout.String(), convey.ShouldContainSubstring, `"weekly_points": 142`)
			})
		})

		convey.Convey("When the accepted statuses come from the environment", func() {
			t.Setenv("PITPOOL_RESULT_STATUSES", "Running,Accident,Engine")
			_, results, picks, totals := writeInputs(t, picksFile)
			code := run(ctx, []string{results, picks, totals, "y"}, strings.NewReader(""), &stdout, &stderr)

			convey.Convey("Then every results line still parses", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "#1, Alice with 140 takes..........1")
			})
		})

		convey.Convey("When a picks line is malformed", func() {
			_, results, picks, totals := writeInputs(t, "Alice....1 2 3\n")
			code := run(ctx, []string{results, picks, totals, "n"}, strings.NewReader(""), &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitMalformed)
		})

		convey.Convey("When a player has no prior total", func() {
			_, results, picks, totals := writeInputs(t, picksFile+"Eve....1 2 3 4\n")
			code := run(ctx, []string{results, picks, totals, "n"}, strings.NewReader(""), &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitUnresolved)
		})

		convey.Convey("When only two players picked", func() {
			_, results, picks, totals := writeInputs(t, "Alice....1 2 3 4\nBob....5 6 7 8\n")
			code := run(ctx, []string{results, picks, totals, "n"}, strings.NewReader(""), &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitInsufficient)
		})

		convey.Convey("When arguments are missing", func() {
			code := run(ctx, []string{"results.txt"}, strings.NewReader(""), &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitUsage)
			convey.So(stderr.String(), convey.ShouldContainSubstring, usageLine)
		})

		convey.Convey("When totals come from the store but none is configured", func() {
			_, results, picks, _ := writeInputs(t, picksFile)
			code := run(ctx, []string{results, picks, storeArg, "n"}, strings.NewReader(""), &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitUsage)
		})
	})
}
