package service

import (
	"math"
	"sort"

	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

const (
	eloKFactor       = 32
	eloDefaultRating = 1000
)

// EloCalculator keeps running ELO ratings for every model that played.
type EloCalculator struct {
	ratings map[string]float64
}

func NewEloCalculator() *EloCalculator {
	return &EloCalculator{
		ratings: make(map[string]float64),
	}
}

func (that *EloCalculator) Rating(playerName string) float64 {
	if rating, ok := that.ratings[playerName]; ok {
		return rating
	}
	return eloDefaultRating
}

// expectedScore is the win probability of A against B:
// 1 / (1 + 10^((ratingB - ratingA)/400)).
func expectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// Update applies one game: scores are 1 for a win, 0.5 for a draw, 0 for
// a loss.
func (that *EloCalculator) Update(playerA, playerB string, scoreA, scoreB float64) {
	ratingA := that.Rating(playerA)
	ratingB := that.Rating(playerB)

	expectedA := expectedScore(ratingA, ratingB)
	expectedB := 1 - expectedA

	that.ratings[playerA] = ratingA + eloKFactor*(scoreA-expectedA)
	that.ratings[playerB] = ratingB + eloKFactor*(scoreB-expectedB)
}

// CalculateRatings folds an ordered result list into final ratings.
// Self-play games are skipped, they would only inflate a single model.
func CalculateRatings(results []entity.Result) map[string]float64 {
	calculator := NewEloCalculator()

	for _, result := range results {
		if result.RedPlayer == result.YellowPlayer {
			continue
		}

		var redScore, yellowScore float64
		switch result.Winner {
		case entity.OutcomeRedWins:
			redScore, yellowScore = 1.0, 0.0
		case entity.OutcomeYellowWins:
			redScore, yellowScore = 0.0, 1.0
		default:
			redScore, yellowScore = 0.5, 0.5
		}

		calculator.Update(result.RedPlayer, result.YellowPlayer, redScore, yellowScore)
	}

	return calculator.ratings
}

// Rating is one leaderboard row.
type Rating struct {
	Player string `json:"player"`
	Rating int    `json:"rating"`
}

// SortedRatings renders a ratings map into leaderboard rows, best first.
func SortedRatings(ratings map[string]float64) []Rating {
	rows := make([]Rating, 0, len(ratings))
	for playerName, rating := range ratings {
		rows = append(rows, Rating{Player: playerName, Rating: int(math.Round(rating))})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Rating != rows[j].Rating {
			return rows[i].Rating > rows[j].Rating
		}
		return rows[i].Player < rows[j].Player
	})

	return rows
}
