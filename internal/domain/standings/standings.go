// Package standings projects scored players into the next race's carry-forward
// records and renders them in the standings line format.
package standings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/ranking"
)

const (
	evenBalance = "Even"
	nameLeader  = "........."
	totalLeader = "....."
)

// ErrInvalidBalance is returned when a balance string cannot be parsed.
var ErrInvalidBalance = errors.New("invalid balance")

// Project returns the next race's standings ordered by season total
// descending, ties in input order.
func Project(players []model.Player) []model.Standing {
	ranked := ranking.Season(players)
	out := make([]model.Standing, len(ranked))
	for i, p := range ranked {
		out[i] = p.Standing()
	}
	return out
}

// FormatBalance renders a balance as "Even", "+$N" or "-$N".
func FormatBalance(balance int) string {
	switch {
	case balance == 0:
		return evenBalance
	case balance < 0:
		return "-$" + strconv.Itoa(-balance)
	default:
		return "+$" + strconv.Itoa(balance)
	}
}

// ParseBalance is the inverse of FormatBalance. "Even" is matched
// case-insensitively.
func ParseBalance(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, evenBalance) {
		return 0, nil
	}
	if len(s) < 3 || s[1] != '$' || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, s)
	}
	digits := s[2:]
	if strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, s)
	}
	if s[0] == '-' {
		n = -n
	}
	return n, nil
}

// FormatLine renders one standings record, e.g. "Alice.........120.....+$10".
func FormatLine(s model.Standing) string {
	return s.Name + nameLeader + strconv.Itoa(s.SeasonTotal) + totalLeader + FormatBalance(s.Balance)
}

// Lines renders every record with FormatLine.
func Lines(records []model.Standing) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = FormatLine(r)
	}
	return out
}
