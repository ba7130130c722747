package model_test

import (
	"errors"
	"testing"

	"github.com/okian/pitpool/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleResults() []model.RaceResult {
	return []model.RaceResult{
		{CarNumber: 24, Start: 1, Finish: 2, Points: 170, Status: "Running"},
		{CarNumber: 48, Start: 5, Finish: 1, Points: 185, Status: "Running"},
		{CarNumber: 11, Start: 2, Finish: 3, Points: 170, Status: "Running"},
		{CarNumber: 88, Start: 12, Finish: 40, Points: 43, Status: "Accident"},
	}
}

func TestNewResultSet(t *testing.T) {
	Convey("Given parsed race results", t, func() {
		Convey("When the car numbers are unique", func() {
			rs, err := model.NewResultSet(sampleResults())

			Convey("Then every car can be looked up", func() {
				So(err, ShouldBeNil)
				So(rs.Len(), ShouldEqual, 4)
				r, ok := rs.Lookup(48)
				So(ok, ShouldBeTrue)
				So(r.Points, ShouldEqual, 185)
				_, ok = rs.Lookup(99)
				So(ok, ShouldBeFalse)
			})

			Convey("And results come back ordered by finish", func() {
				out := rs.Results()
				So(out, ShouldHaveLength, 4)
				So(out[0].CarNumber, ShouldEqual, 48)
				So(out[1].CarNumber, ShouldEqual, 24)
				So(out[3].CarNumber, ShouldEqual, 88)
			})
		})

		Convey("When a car number repeats", func() {
			results := append(sampleResults(), model.RaceResult{CarNumber: 24, Start: 3, Finish: 5, Points: 10})
			_, err := model.NewResultSet(results)

			Convey("Then the set is rejected as malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "duplicate car number 24")
			})
		})

		Convey("When a position is zero", func() {
			_, err := model.NewResultSet([]model.RaceResult{{CarNumber: 1, Start: 0, Finish: 1}})

			Convey("Then the set is rejected as malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When the zero value is used", func() {
			var rs model.ResultSet

			Convey("Then lookups miss without panicking", func() {
				_, ok := rs.Lookup(1)
				So(ok, ShouldBeFalse)
				So(rs.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestResultSet_BestCar(t *testing.T) {
	Convey("Given a result set", t, func() {
		rs, err := model.NewResultSet(sampleResults())
		So(err, ShouldBeNil)

		Convey("When one pick clearly scores the most", func() {
			Convey("Then that pick is returned", func() {
				So(rs.BestCar([]int{24, 88, 48, 11}), ShouldEqual, 48)
			})
		})

		Convey("When two picks tie on points", func() {
			Convey("Then the first one in input order wins", func() {
				So(rs.BestCar([]int{88, 11, 24, 7}), ShouldEqual, 11)
				So(rs.BestCar([]int{88, 24, 11, 7}), ShouldEqual, 24)
			})
		})

		Convey("When the first pick has no result", func() {
			car, found := rs.BestCarFound([]int{7, 88, 9, 10})

			Convey("Then the best present pick is still found", func() {
				So(found, ShouldBeTrue)
				So(car, ShouldEqual, 88)
			})
		})

		// The all-missing fallback mirrors the legacy pool and is pending
		// confirmation from the pool's commissioner.
		Convey("When no pick has a result", func() {
			car, found := rs.BestCarFound([]int{7, 8, 9, 10})

			Convey("Then the first pick is returned as a fallback", func() {
				So(found, ShouldBeFalse)
				So(car, ShouldEqual, 7)
				So(rs.BestCar([]int{7, 8, 9, 10}), ShouldEqual, 7)
			})
		})

		Convey("When picks are searched", func() {
			Convey("Then the answer is always one of the picks", func() {
				pickLists := [][]int{
					{24, 48, 11, 88},
					{1, 2, 3, 4},
					{88, 2, 48, 3},
					{11, 11, 24, 24},
				}
				for _, picks := range pickLists {
					So(picks, ShouldContain, rs.BestCar(picks))
				}
			})
		})

		Convey("When no picks are passed", func() {
			car, found := rs.BestCarFound(nil)
			So(found, ShouldBeFalse)
			So(car, ShouldEqual, 0)
		})
	})
}

func TestNewRoster(t *testing.T) {
	Convey("Given picks and prior standings", t, func() {
		prior := []model.Standing{
			{Name: "Alice", SeasonTotal: 120, Balance: 10},
			{Name: " Bob ", SeasonTotal: 95, Balance: 0},
			{Name: "Carol", SeasonTotal: 80, Balance: -15},
		}

		Convey("When every player has a standing", func() {
			picks := []model.Picks{
				{Name: "Bob", Cars: [4]int{1, 2, 3, 4}},
				{Name: "Alice ", Cars: [4]int{24, 48, 11, 88}},
			}
			players, err := model.NewRoster(picks, prior)

			Convey("Then players are seeded in picks order with trimmed names", func() {
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 2)
				So(players[0].Name, ShouldEqual, "Bob")
				So(players[0].SeasonTotal, ShouldEqual, 95)
				So(players[1].Name, ShouldEqual, "Alice")
				So(players[1].Balance, ShouldEqual, 10)
				So(players[1].WeeklyPoints, ShouldEqual, 0)
				So(players[1].PickList(), ShouldResemble, []int{24, 48, 11, 88})
			})
		})

		Convey("When a player has no standing", func() {
			picks := []model.Picks{{Name: "Dave", Cars: [4]int{1, 2, 3, 4}}}
			_, err := model.NewRoster(picks, prior)

			Convey("Then the join fails", func() {
				So(errors.Is(err, model.ErrUnresolvedPlayer), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Dave")
			})
		})

		Convey("When a player submits picks twice", func() {
			picks := []model.Picks{
				{Name: "Alice", Cars: [4]int{1, 2, 3, 4}},
				{Name: "Alice", Cars: [4]int{5, 6, 7, 8}},
			}
			_, err := model.NewRoster(picks, prior)

			Convey("Then the picks are malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When standings repeat a name", func() {
			dup := append(prior, model.Standing{Name: "Alice", SeasonTotal: 1})
			_, err := model.NewRoster(nil, dup)

			Convey("Then the standings are malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})
	})
}
