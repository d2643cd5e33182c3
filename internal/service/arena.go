package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/arena"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
	"github.com/rocketscienceinc/connect4-arena/internal/player"
	"github.com/rocketscienceinc/connect4-arena/internal/repository"
)

// PlayerFactory turns an opaque model selector into a player adapter.
type PlayerFactory interface {
	Create(selector string) (player.Player, error)
}

type ArenaService interface {
	CreateMatch(ctx context.Context, redModel, yellowModel string) (*repository.MatchState, error)
	Step(ctx context.Context, matchID string) (*repository.MatchState, error)
	Run(ctx context.Context, matchID string, onRecord func(entity.TurnRecord)) (*repository.MatchState, error)
	Abort(ctx context.Context, matchID string) (*repository.MatchState, error)
	State(ctx context.Context, matchID string) (*repository.MatchState, error)
	Leaderboard(ctx context.Context) (*Leaderboard, error)
}

// Leaderboard is what the UI renders on its leaderboard tab.
type Leaderboard struct {
	Ratings []Rating        `json:"ratings"`
	Results []entity.Result `json:"results"`
}

type arenaService struct {
	logger      *slog.Logger
	factory     PlayerFactory
	matchRepo   repository.MatchRepository
	resultRepo  repository.ResultRepository
	retryBudget int
	moveTimeout time.Duration
	allowed     []string

	mu   sync.Mutex
	live map[string]*liveMatch
}

// liveMatch pairs a running orchestrator with the cancel function used
// for external aborts. The orchestrator itself is single-owner; the
// service serializes access to it per match.
type liveMatch struct {
	mu     sync.Mutex
	match  *entity.Match
	orch   *arena.Orchestrator
	ctx    context.Context
	cancel context.CancelFunc
}

func NewArenaService(
	logger *slog.Logger,
	factory PlayerFactory,
	matchRepo repository.MatchRepository,
	resultRepo repository.ResultRepository,
	retryBudget int,
	moveTimeout time.Duration,
	allowed []string,
) ArenaService {
	return &arenaService{
		logger:      logger.With("component", "arena"),
		factory:     factory,
		matchRepo:   matchRepo,
		resultRepo:  resultRepo,
		retryBudget: retryBudget,
		moveTimeout: moveTimeout,
		allowed:     allowed,
		live:        make(map[string]*liveMatch),
	}
}

func (that *arenaService) CreateMatch(ctx context.Context, redModel, yellowModel string) (*repository.MatchState, error) {
	for _, model := range []string{redModel, yellowModel} {
		if err := that.checkAllowed(model); err != nil {
			return nil, err
		}
	}

	red, err := that.factory.Create(redModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create red player: %w", err)
	}

	yellow, err := that.factory.Create(yellowModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create yellow player: %w", err)
	}

	match := entity.NewMatch(uuid.NewString(), red.Name(), yellow.Name())
	orch := arena.NewOrchestrator(that.logger, red, yellow, that.retryBudget, that.moveTimeout)

	// The match context outlives the request that created it; aborts
	// cancel it between turns.
	matchCtx, cancel := context.WithCancel(context.Background())

	live := &liveMatch{
		match:  match,
		orch:   orch,
		ctx:    matchCtx,
		cancel: cancel,
	}

	that.mu.Lock()
	that.live[match.ID] = live
	that.mu.Unlock()

	state := snapshot(live)
	if err = that.matchRepo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to store new match: %w", err)
	}

	that.logger.Info("match created", "match", match.ID, "red", match.RedPlayer, "yellow", match.YellowPlayer)

	return state, nil
}

func (that *arenaService) Step(ctx context.Context, matchID string) (*repository.MatchState, error) {
	live, err := that.liveByID(matchID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	if live.orch.Finished() {
		return nil, apperror.ErrMatchFinished
	}

	stepErr := live.orch.Step(live.ctx)

	state, err := that.persist(ctx, live)
	if err != nil {
		return nil, err
	}

	if stepErr != nil {
		return state, fmt.Errorf("turn failed: %w", stepErr)
	}

	return state, nil
}

func (that *arenaService) Run(ctx context.Context, matchID string, onRecord func(entity.TurnRecord)) (*repository.MatchState, error) {
	live, err := that.liveByID(matchID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	live.orch.OnRecord(onRecord)
	defer live.orch.OnRecord(nil)

	for !live.orch.Finished() {
		if err = live.orch.Step(live.ctx); err != nil {
			break
		}
	}

	state, persistErr := that.persist(ctx, live)
	if persistErr != nil {
		return nil, persistErr
	}

	if err != nil {
		return state, fmt.Errorf("match run failed: %w", err)
	}

	return state, nil
}

func (that *arenaService) Abort(ctx context.Context, matchID string) (*repository.MatchState, error) {
	live, err := that.liveByID(matchID)
	if err != nil {
		return nil, err
	}

	live.cancel()

	live.mu.Lock()
	defer live.mu.Unlock()

	// A single step lets the orchestrator observe the cancellation at
	// the top of AwaitingMove and close the transcript properly.
	if !live.orch.Finished() {
		if err = live.orch.Step(live.ctx); err != nil {
			return nil, fmt.Errorf("failed to finalize aborted match: %w", err)
		}
	}

	return that.persist(ctx, live)
}

func (that *arenaService) State(ctx context.Context, matchID string) (*repository.MatchState, error) {
	that.mu.Lock()
	live, ok := that.live[matchID]
	that.mu.Unlock()

	if ok {
		live.mu.Lock()
		defer live.mu.Unlock()
		return snapshot(live), nil
	}

	state, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}

	return state, nil
}

func (that *arenaService) Leaderboard(ctx context.Context) (*Leaderboard, error) {
	results, err := that.resultRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return &Leaderboard{
		Ratings: SortedRatings(CalculateRatings(results)),
		Results: results,
	}, nil
}

func (that *arenaService) liveByID(matchID string) (*liveMatch, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	live, ok := that.live[matchID]
	if !ok {
		return nil, apperror.ErrMatchNotFound
	}

	return live, nil
}

// persist writes the current state to the live-match store and, when the
// match just finished, records the durable result. User-cancelled
// matches leave no result: they never happened as far as ratings go.
func (that *arenaService) persist(ctx context.Context, live *liveMatch) (*repository.MatchState, error) {
	justFinished := live.orch.Finished() && !live.match.IsFinished()

	if justFinished {
		live.match.Finish(*live.orch.Outcome())
	}

	state := snapshot(live)
	if err := that.matchRepo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to store match state: %w", err)
	}

	if !justFinished {
		return state, nil
	}

	outcome := live.match.Outcome
	if outcome.Kind == entity.OutcomeAborted && outcome.Offender == entity.ColorNone {
		return state, nil
	}

	if err := that.resultRepo.Save(ctx, entity.ResultFromMatch(live.match)); err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	that.logger.Info("result recorded", "match", live.match.ID, "outcome", outcome.Kind)

	return state, nil
}

func (that *arenaService) checkAllowed(model string) error {
	if len(that.allowed) == 0 {
		return nil
	}

	if !slices.Contains(that.allowed, model) {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownModel, model)
	}

	return nil
}

func snapshot(live *liveMatch) *repository.MatchState {
	return &repository.MatchState{
		Match:      live.match,
		Transcript: live.orch.Transcript().Snapshot(),
	}
}
