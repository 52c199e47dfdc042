// Package models defines the core domain types shared across the application.
package models

// Race represents a single race card entry, upcoming or past.
type Race struct {
	ID         string `json:"race_id" validate:"required"`
	Name       string `json:"race_name"`
	Course     string `json:"course"`
	Date       string `json:"date"`
	Venue      string `json:"venue"`
	RaceNumber int    `json:"race_number"`
}

// venueNames maps JRA venue codes (positions 4-6 of the race ID) to names.
var venueNames = map[string]string{
	"01": "Sapporo",
	"02": "Hakodate",
	"03": "Fukushima",
	"04": "Niigata",
	"05": "Tokyo",
	"06": "Nakayama",
	"07": "Chukyo",
	"08": "Kyoto",
	"09": "Hanshin",
	"10": "Kokura",
}

// VenueFromRaceID decodes the venue name embedded in a 12-digit race ID.
// Format: {year:4}{venue:2}{meeting:2}{day:2}{race_number:2}.
func VenueFromRaceID(raceID string) string {
	if len(raceID) < 6 {
		return "unknown"
	}
	if name, ok := venueNames[raceID[4:6]]; ok {
		return name
	}
	return "unknown"
}

// RaceNumberFromRaceID decodes the race number embedded in a 12-digit race ID.
func RaceNumberFromRaceID(raceID string) int {
	if len(raceID) < 12 {
		return 0
	}
	n := 0
	for _, c := range raceID[10:12] {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
