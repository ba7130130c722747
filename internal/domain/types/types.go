// Package types contains the report rows shared by the report writers
package types

// WeeklyEntry is one row of the results e-mail, in pick order.
type WeeklyEntry struct {
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	WeeklyPoints int    `json:"weekly_points"`
	SeasonTotal  int    `json:"season_total"`
	BestCar      int    `json:"best_car"`
	BestCarFound bool   `json:"best_car_found"`
	Payout       int    `json:"payout"`
}

// StandingEntry is one row of the season standings
type StandingEntry struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	SeasonTotal int    `json:"season_total"`
	Balance     int    `json:"balance"`
	BalanceText string `json:"balance_text"`
}

// ResultEntry is one car's finishing record as shown in the report.
type ResultEntry struct {
	Finish    int    `json:"finish"`
	Start     int    `json:"start"`
	CarNumber int    `json:"car_number"`
	Driver    string `json:"driver,omitempty"`
	Points    int    `json:"points"`
	Status    string `json:"status"`
}

// Report is the JSON document emitted for one race.
type Report struct {
	RunID           string          `json:"run_id"`
	QualifyingBonus bool            `json:"qualifying_bonus"`
	Results         []ResultEntry   `json:"results"`
	Weekly          []WeeklyEntry   `json:"weekly"`
	Standings       []StandingEntry `json:"standings"`
	Notes           []string        `json:"notes,omitempty"`
}
