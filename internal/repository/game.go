package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
	"github.com/rocketscienceinc/stratego-backend/internal/pkg/codec"
)

var (
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrTooManyConflicts  = errors.New("too many concurrent updates")
)

const defaultMaxRetries = 10

// GameRepository stores a game together with its rules state and move history.
// Update is atomic per game: concurrent updates of one game are serialized.
type GameRepository interface {
	CreateGame(ctx context.Context, game *entity.Game) error
	Load(ctx context.Context, gameID string) (*entity.Match, error)
	Update(ctx context.Context, gameID string, fn func(match *entity.Match) error) error
	ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error)
	// DeleteGame removes the game with its status and history once check accepts the stored
	// match. Check and delete are atomic; a nil check always deletes.
	DeleteGame(ctx context.Context, gameID string, check func(match *entity.Match) error) error
}

type redisReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	LIndex(ctx context.Context, key string, index int64) *redis.StringCmd
}

type dbGame struct {
	client     *redis.Client
	codec      codec.Codec
	maxRetries int
}

func NewGameRepository(client *redis.Client, codec codec.Codec, maxRetries int) GameRepository {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &dbGame{
		client:     client,
		codec:      codec,
		maxRetries: maxRetries,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func statusKey(id string) string {
	return "stratego:status:" + id
}

func movementsKey(id string) string {
	return "stratego:movements:" + id
}

func (that *dbGame) CreateGame(ctx context.Context, game *entity.Game) error {
	gameJSON, err := that.codec.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(game.ID), gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", ErrGameAlreadyExists, game.ID)
	}

	return nil
}

// Load reads the game, its status and its last movement in one MULTI/EXEC so the three
// always come from the same committed update.
func (that *dbGame) Load(ctx context.Context, gameID string) (*entity.Match, error) {
	var gameCmd, statusCmd, lastCmd *redis.StringCmd

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		gameCmd = pipe.Get(ctx, gameKey(gameID))
		statusCmd = pipe.Get(ctx, statusKey(gameID))
		lastCmd = pipe.LIndex(ctx, movementsKey(gameID), -1)

		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return that.decode(gameCmd, statusCmd, lastCmd)
}

func (that *dbGame) Update(ctx context.Context, gameID string, fn func(match *entity.Match) error) error {
	return that.watch(ctx, gameID, func(tx *redis.Tx) error {
		match, err := that.load(ctx, tx, gameID)
		if err != nil {
			return err
		}

		if err = fn(match); err != nil {
			return err
		}

		return that.save(ctx, tx, gameID, match)
	})
}

// watch runs fn under WATCH on the game keys, retrying while another client commits first.
func (that *dbGame) watch(ctx context.Context, gameID string, fn func(tx *redis.Tx) error) error {
	keys := []string{gameKey(gameID), statusKey(gameID), movementsKey(gameID)}

	for range that.maxRetries {
		err := that.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return fmt.Errorf("%w: game %s", ErrTooManyConflicts, gameID)
}

func (that *dbGame) ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error) {
	exists, err := that.client.Exists(ctx, gameKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check game: %w", err)
	}

	if exists == 0 {
		return nil, apperror.ErrNotFound
	}

	items, err := that.client.LRange(ctx, movementsKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get movements: %w", err)
	}

	records := make([]entity.MovementRecord, 0, len(items))
	for _, item := range items {
		var record entity.MovementRecord
		if err = that.codec.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal movement: %w", err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (that *dbGame) DeleteGame(ctx context.Context, gameID string, check func(match *entity.Match) error) error {
	return that.watch(ctx, gameID, func(tx *redis.Tx) error {
		match, err := that.load(ctx, tx, gameID)
		if err != nil {
			return err
		}

		if check != nil {
			if err = check(match); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, gameKey(gameID), statusKey(gameID), movementsKey(gameID))
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}

		return nil
	})
}

func (that *dbGame) load(ctx context.Context, reader redisReader, gameID string) (*entity.Match, error) {
	return that.decode(
		reader.Get(ctx, gameKey(gameID)),
		reader.Get(ctx, statusKey(gameID)),
		reader.LIndex(ctx, movementsKey(gameID), -1),
	)
}

func (that *dbGame) decode(gameCmd, statusCmd, lastCmd *redis.StringCmd) (*entity.Match, error) {
	response, err := gameCmd.Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game entity.Game
	if err = that.codec.Unmarshal([]byte(response), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	match := &entity.Match{Game: &game}

	response, err = statusCmd.Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("failed to get game status: %w", err)
	default:
		var rules entity.Rules
		if err = that.codec.Unmarshal([]byte(response), &rules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game status: %w", err)
		}

		match.Rules = &rules
	}

	response, err = lastCmd.Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("failed to get last movement: %w", err)
	default:
		var record entity.MovementRecord
		if err = that.codec.Unmarshal([]byte(response), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal movement: %w", err)
		}

		match.LastMovement = &record
	}

	return match, nil
}

func (that *dbGame) save(ctx context.Context, tx *redis.Tx, gameID string, match *entity.Match) error {
	gameJSON, err := that.codec.Marshal(match.Game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	var rulesJSON []byte
	if match.Rules != nil {
		if rulesJSON, err = that.codec.Marshal(match.Rules); err != nil {
			return fmt.Errorf("could not marshal game status: %w", err)
		}
	}

	records := make([]any, 0, len(match.Recorded()))
	for _, record := range match.Recorded() {
		recordJSON, err := that.codec.Marshal(record)
		if err != nil {
			return fmt.Errorf("could not marshal movement: %w", err)
		}

		records = append(records, recordJSON)
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(gameID), gameJSON, 0)

		if rulesJSON != nil {
			pipe.Set(ctx, statusKey(gameID), rulesJSON, 0)
		}

		if len(records) > 0 {
			pipe.RPush(ctx, movementsKey(gameID), records...)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}
