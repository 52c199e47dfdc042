package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

// MockDataSource serves deterministic demo data for local development.
// It is selected only by explicit configuration; the live client never
// falls back to it.
type MockDataSource struct{}

// NewMockDataSource creates a new mock data source
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{}
}

// ListUpcomingRaces returns a fixed card of upcoming demo races
func (m *MockDataSource) ListUpcomingRaces(ctx context.Context, days int) ([]models.Race, error) {
	date := time.Now().Format("2006-01-02")
	return []models.Race{
		m.race("202605021101", "メインレース", "芝2000m", date),
		m.race("202605021111", "サンプルステークス", "芝1600m", date),
		m.race("202609030205", "デモ特別", "ダート1800m", date),
	}, nil
}

// ListPastRaces returns a fixed card of finished demo races
func (m *MockDataSource) ListPastRaces(ctx context.Context, days int) ([]models.Race, error) {
	date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	return []models.Race{
		m.race("202605011211", "過去レース", "芝2400m", date),
	}, nil
}

// FetchEntrants returns a demo race card with ten priced entrants
func (m *MockDataSource) FetchEntrants(ctx context.Context, raceID string) ([]models.Horse, error) {
	names := []string{
		"スターダンサー", "ゴールドラッシュ", "シルバーウィンド", "ブレイブハート",
		"ミッドナイトサン", "サクラフブキ", "トウカイテイオー", "ハヤテマル",
		"キングフィッシャー", "ラストチャンス",
	}
	odds := []float64{2.5, 4.1, 6.8, 9.9, 12.3, 18.5, 25.0, 41.2, 68.0, 110.4}

	horses := make([]models.Horse, 0, len(names))
	for i, name := range names {
		change := (i % 5) * 2
		if i%2 == 1 {
			change = -change
		}
		third := 3
		horses = append(horses, models.Horse{
			ID:           fmt.Sprintf("%s-%02d", raceID, i+1),
			Name:         name,
			Jockey:       fmt.Sprintf("騎手%d", i+1),
			Weight:       55.0 + float64(i%4),
			OddsWin:      odds[i],
			OddsPlace:    1.1 + odds[i]/10,
			HorseNumber:  i + 1,
			GateNumber:   i/2 + 1,
			BodyWeight:   460 + i*4,
			WeightChange: &change,
			Popularity:   i + 1,
			RaceHistory: []models.HistoryEntry{
				{Ranking: &third, FieldSize: 14, Last3F: 34.5 + float64(i)*0.2},
			},
		})
	}
	return horses, nil
}

// FetchResult returns a demo result where the favourite won
func (m *MockDataSource) FetchResult(ctx context.Context, raceID string) (*models.RaceResult, error) {
	horses, _ := m.FetchEntrants(ctx, raceID)

	result := &models.RaceResult{
		RaceID:   raceID,
		RaceName: "デモレース",
		Venue:    models.VenueFromRaceID(raceID),
		Date:     time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		Course:   "芝2000m",
	}

	for i, h := range horses {
		rank := i + 1
		result.Horses = append(result.Horses, models.HorseResult{
			Ranking:     &rank,
			HorseNumber: h.HorseNumber,
			Name:        h.Name,
			Jockey:      h.Jockey,
			Time:        fmt.Sprintf("2:00.%d", i),
			OddsWin:     h.OddsWin,
			Popularity:  h.Popularity,
		})
	}

	result.Payouts = []models.Payout{
		{Type: models.BetTypeWin, Results: []models.PayoutLine{
			{HorseNumbers: "1", Amount: 250, Popularity: 1},
		}},
		{Type: models.BetTypePlace, Results: []models.PayoutLine{
			{HorseNumbers: "1", Amount: 110, Popularity: 1},
			{HorseNumbers: "2", Amount: 140, Popularity: 2},
			{HorseNumbers: "3", Amount: 210, Popularity: 3},
		}},
		{Type: models.BetTypeWide, Results: []models.PayoutLine{
			{HorseNumbers: "1-2", Amount: 320, Popularity: 1},
			{HorseNumbers: "1-3", Amount: 540, Popularity: 2},
			{HorseNumbers: "2-3", Amount: 780, Popularity: 3},
		}},
		{Type: models.BetTypeTrio, Results: []models.PayoutLine{
			{HorseNumbers: "1-2-3", Amount: 1850, Popularity: 1},
		}},
		{Type: models.BetTypeTrifecta, Results: []models.PayoutLine{
			{HorseNumbers: "1-2-3", Amount: 6420, Popularity: 1},
		}},
	}
	return result, nil
}

// Name returns the data source name
func (m *MockDataSource) Name() string {
	return "mock"
}

// HealthCheck always succeeds for the mock source
func (m *MockDataSource) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockDataSource) race(id, name, course, date string) models.Race {
	return models.Race{
		ID:         id,
		Name:       name,
		Course:     course,
		Date:       date,
		Venue:      models.VenueFromRaceID(id),
		RaceNumber: models.RaceNumberFromRaceID(id),
	}
}
