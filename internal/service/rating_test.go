package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

func TestEloCalculator_Update(t *testing.T) {
	t.Run("equal players trade 16 points on a win", func(t *testing.T) {
		// Given: two unrated players, both at the 1000 default
		calculator := NewEloCalculator()

		// When: A beats B
		calculator.Update("model-a", "model-b", 1, 0)

		// Then: A gains exactly K/2 and B loses the same
		assert.InDelta(t, 1016, calculator.Rating("model-a"), 0.001)
		assert.InDelta(t, 984, calculator.Rating("model-b"), 0.001)
	})

	t.Run("a draw between equals changes nothing", func(t *testing.T) {
		calculator := NewEloCalculator()

		calculator.Update("model-a", "model-b", 0.5, 0.5)

		assert.InDelta(t, 1000, calculator.Rating("model-a"), 0.001)
		assert.InDelta(t, 1000, calculator.Rating("model-b"), 0.001)
	})

	t.Run("beating a stronger player pays more", func(t *testing.T) {
		// Given: B has already won one game and sits above A
		calculator := NewEloCalculator()
		calculator.Update("model-b", "model-c", 1, 0)
		strongBefore := calculator.Rating("model-b")

		// When: the underdog A beats B
		calculator.Update("model-a", "model-b", 1, 0)

		// Then: A gains more than the 16 points an equal win pays
		assert.Greater(t, calculator.Rating("model-a"), 1016.0)
		assert.Less(t, calculator.Rating("model-b"), strongBefore)
	})

	t.Run("unknown players start at the default", func(t *testing.T) {
		calculator := NewEloCalculator()

		assert.InDelta(t, 1000, calculator.Rating("never-played"), 0.001)
	})
}

func TestCalculateRatings(t *testing.T) {
	now := time.Now().UTC()

	t.Run("folds results in order", func(t *testing.T) {
		// Given: two decisive games and one draw
		results := []entity.Result{
			{RedPlayer: "model-a", YellowPlayer: "model-b", Winner: entity.OutcomeRedWins, When: now},
			{RedPlayer: "model-b", YellowPlayer: "model-c", Winner: entity.OutcomeYellowWins, When: now},
			{RedPlayer: "model-a", YellowPlayer: "model-c", Winner: entity.OutcomeDraw, When: now},
		}

		// When: ratings are calculated
		ratings := CalculateRatings(results)

		// Then: every player is rated and model-b, having lost both
		// its games, sits last
		require.Len(t, ratings, 3)
		assert.Less(t, ratings["model-b"], ratings["model-a"])
		assert.Less(t, ratings["model-b"], ratings["model-c"])
	})

	t.Run("self-play is skipped", func(t *testing.T) {
		results := []entity.Result{
			{RedPlayer: "model-a", YellowPlayer: "model-a", Winner: entity.OutcomeRedWins, When: now},
		}

		ratings := CalculateRatings(results)

		assert.Empty(t, ratings)
	})
}

func TestSortedRatings(t *testing.T) {
	// Given: an unordered ratings map with a tie
	ratings := map[string]float64{
		"model-c": 984.2,
		"model-a": 1016.4,
		"model-b": 1016.4,
	}

	// When: rows are rendered
	rows := SortedRatings(ratings)

	// Then: best first, ties broken by name
	require.Len(t, rows, 3)
	assert.Equal(t, Rating{Player: "model-a", Rating: 1016}, rows[0])
	assert.Equal(t, Rating{Player: "model-b", Rating: 1016}, rows[1])
	assert.Equal(t, Rating{Player: "model-c", Rating: 984}, rows[2])
}
