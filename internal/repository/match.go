package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

// MatchState is what the UI needs to resume rendering a live match: the
// match header plus the transcript so far.
type MatchState struct {
	Match      *entity.Match       `json:"match"`
	Transcript []entity.TurnRecord `json:"transcript"`
}

type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, state *MatchState) error
	GetByID(ctx context.Context, id string) (*MatchState, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbMatch struct {
	client *redis.Client
}

func NewMatchRepository(client *redis.Client) MatchRepository {
	return &dbMatch{
		client: client,
	}
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, state *MatchState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal match state: %w", err)
	}

	matchKey := "match:" + state.Match.ID
	if err = that.client.Set(ctx, matchKey, stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set match state: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*MatchState, error) {
	matchKey := "match:" + id

	response, err := that.client.Get(ctx, matchKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var state MatchState
	if err = json.Unmarshal([]byte(response), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match state: %w", err)
	}

	return &state, nil
}

func (that *dbMatch) DeleteByID(ctx context.Context, id string) error {
	matchKey := "match:" + id

	if err := that.client.Del(ctx, matchKey).Err(); err != nil {
		return fmt.Errorf("failed to delete match by ID: %w", err)
	}

	return nil
}
