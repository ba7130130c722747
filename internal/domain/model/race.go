// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/okian/pitpool/internal/domain/dedupe"
)

// RaceResult is one car's official finishing record.
type RaceResult struct {
	CarNumber int    // unique within a race
	Start     int    // starting grid position, 1-based
	Finish    int    // finishing position, 1-based
	Points    int    // points awarded by the sanctioning body
	Status    string // e.g. "Running", "Accident", "Engine"; display only
	Driver    string // free text between car number and points; display only
}

// ResultSet maps car numbers to results for a single race.
// The zero value is an empty, usable set.
type ResultSet struct {
	byCar map[int]RaceResult
	order []int // car numbers in input order
}

// NewResultSet builds a ResultSet from parsed results. A car number that
// appears twice is a malformed input.
func NewResultSet(results []RaceResult) (ResultSet, error) {
	seen := dedupe.New(dedupe.WithCapacity(len(results)))
	rs := ResultSet{
		byCar: make(map[int]RaceResult, len(results)),
		order: make([]int, 0, len(results)),
	}
	for _, r := range results {
		if seen.SeenAndRecord(strconv.Itoa(r.CarNumber)) {
			return ResultSet{}, fmt.Errorf("%w: duplicate car number %d", ErrMalformedRecord, r.CarNumber)
		}
		if r.Start < 1 || r.Finish < 1 || r.Points < 0 {
			return ResultSet{}, fmt.Errorf("%w: car %d has start=%d finish=%d points=%d",
				ErrMalformedRecord, r.CarNumber, r.Start, r.Finish, r.Points)
		}
		rs.byCar[r.CarNumber] = r
		rs.order = append(rs.order, r.CarNumber)
	}
	return rs, nil
}

// Lookup returns the result for a car and whether it was present.
func (rs ResultSet) Lookup(car int) (RaceResult, bool) {
	r, ok := rs.byCar[car]
	return r, ok
}

// Len returns the number of cars with a result.
func (rs ResultSet) Len() int {
	return len(rs.byCar)
}

// Results returns every result ordered by finishing position.
func (rs ResultSet) Results() []RaceResult {
	out := make([]RaceResult, 0, len(rs.order))
	for _, car := range rs.order {
		out = append(out, rs.byCar[car])
	}
	slices.SortStableFunc(out, func(a, b RaceResult) int {
		return a.Finish - b.Finish
	})
	return out
}

// BestCar returns the pick with the most points. Ties go to the earlier pick.
// Picks without a result are skipped; when none has a result the first pick
// is returned.
func (rs ResultSet) BestCar(cars []int) int {
	car, _ := rs.BestCarFound(cars)
	return car
}

// BestCarFound is BestCar that also reports whether any pick had a result.
// A false second value means the returned car is the first-pick fallback.
func (rs ResultSet) BestCarFound(cars []int) (int, bool) {
	if len(cars) == 0 {
		return 0, false
	}
	best, bestPoints, found := cars[0], 0, false
	for _, car := range cars {
		r, ok := rs.byCar[car]
		if !ok {
			continue
		}
		if !found || r.Points > bestPoints {
			best, bestPoints, found = car, r.Points, true
		}
	}
	return best, found
}
