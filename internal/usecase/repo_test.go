package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryRepo is an in-process gameRepo with the same all-or-nothing Update contract as the real storages.
type memoryRepo struct {
	mu sync.Mutex

	games     map[string]entity.Game
	rules     map[string]entity.Rules
	movements map[string][]entity.MovementRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		games:     make(map[string]entity.Game),
		rules:     make(map[string]entity.Rules),
		movements: make(map[string][]entity.MovementRecord),
	}
}

func (that *memoryRepo) CreateGame(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("game %s already exists", game.ID)
	}

	that.games[game.ID] = *game

	return nil
}

func (that *memoryRepo) Load(_ context.Context, gameID string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.load(gameID)
}

func (that *memoryRepo) Update(_ context.Context, gameID string, fn func(match *entity.Match) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.load(gameID)
	if err != nil {
		return err
	}

	if err = fn(match); err != nil {
		return err
	}

	that.games[gameID] = *match.Game
	if match.Rules != nil {
		that.rules[gameID] = *match.Rules
	}
	that.movements[gameID] = append(that.movements[gameID], match.Recorded()...)

	return nil
}

func (that *memoryRepo) ListMovements(_ context.Context, gameID string) ([]entity.MovementRecord, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[gameID]; !ok {
		return nil, apperror.ErrNotFound
	}

	return append([]entity.MovementRecord{}, that.movements[gameID]...), nil
}

func (that *memoryRepo) DeleteGame(_ context.Context, gameID string, check func(match *entity.Match) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.load(gameID)
	if err != nil {
		return err
	}

	if check != nil {
		if err = check(match); err != nil {
			return err
		}
	}

	delete(that.games, gameID)
	delete(that.rules, gameID)
	delete(that.movements, gameID)

	return nil
}

func (that *memoryRepo) load(gameID string) (*entity.Match, error) {
	game, ok := that.games[gameID]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	match := &entity.Match{Game: &game}

	if rules, ok := that.rules[gameID]; ok {
		match.Rules = &rules
	}

	if history := that.movements[gameID]; len(history) > 0 {
		last := history[len(history)-1]
		match.LastMovement = &last
	}

	return match, nil
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateGame(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) Load(ctx context.Context, gameID string) (*entity.Match, error) {
	args := that.Called(ctx, gameID)
	return args.Get(0).(*entity.Match), args.Error(1)
}

func (that *mockGameRepo) Update(ctx context.Context, gameID string, fn func(match *entity.Match) error) error {
	args := that.Called(ctx, gameID, fn)
	return args.Error(0)
}

func (that *mockGameRepo) ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error) {
	args := that.Called(ctx, gameID)
	return args.Get(0).([]entity.MovementRecord), args.Error(1)
}

func (that *mockGameRepo) DeleteGame(ctx context.Context, gameID string, check func(match *entity.Match) error) error {
	args := that.Called(ctx, gameID, check)
	return args.Error(0)
}
