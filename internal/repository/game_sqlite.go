package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
	"github.com/rocketscienceinc/stratego-backend/internal/pkg/codec"
)

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqliteGame struct {
	conn  *sql.DB
	codec codec.Codec
}

// NewSQLiteGameRepository keeps games in SQLite. The board is stored as an encoded blob.
func NewSQLiteGameRepository(conn *sql.DB, codec codec.Codec) GameRepository {
	return &sqliteGame{
		conn:  conn,
		codec: codec,
	}
}

func (that *sqliteGame) CreateGame(ctx context.Context, game *entity.Game) error {
	query := `INSERT INTO games (id, name, host_id, guest_id, phase, created_at)
		VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`

	result, err := that.conn.ExecContext(ctx, query,
		game.ID, game.Name, game.HostID, game.GuestID, string(game.Phase), game.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't save game: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrGameAlreadyExists, game.ID)
	}

	return nil
}

// Load reads the game, its status and its last movement in one deferred transaction,
// a single WAL snapshot that does not take the write lock.
func (that *sqliteGame) Load(ctx context.Context, gameID string) (*entity.Match, error) {
	conn, err := that.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't get connection: %w", err)
	}
	defer conn.Close()

	if _, err = conn.ExecContext(ctx, `BEGIN DEFERRED`); err != nil {
		return nil, fmt.Errorf("can't begin read transaction: %w", err)
	}

	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), `ROLLBACK`)
	}()

	return that.load(ctx, conn, gameID)
}

func (that *sqliteGame) Update(ctx context.Context, gameID string, fn func(match *entity.Match) error) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	match, err := that.load(ctx, tx, gameID)
	if err != nil {
		return err
	}

	if err = fn(match); err != nil {
		return err
	}

	if err = that.save(ctx, tx, gameID, match); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

func (that *sqliteGame) ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error) {
	var found int
	err := that.conn.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	query := `SELECT rank_, row_initial, col_initial, row_final, col_final, is_guest_turn, outcome, created_at
		FROM stratego_movements WHERE game_id = ? ORDER BY id`

	rows, err := that.conn.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("can't list movements: %w", err)
	}
	defer rows.Close()

	records := []entity.MovementRecord{}
	for rows.Next() {
		var (
			record    entity.MovementRecord
			createdAt int64
		)

		if err = rows.Scan(
			&record.Rank, &record.RowInitial, &record.ColInitial, &record.RowFinal, &record.ColFinal,
			&record.IsGuestTurn, &record.Outcome, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("can't scan movement: %w", err)
		}

		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list movements: %w", err)
	}

	return records, nil
}

func (that *sqliteGame) DeleteGame(ctx context.Context, gameID string, check func(match *entity.Match) error) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	match, err := that.load(ctx, tx, gameID)
	if err != nil {
		return err
	}

	if check != nil {
		if err = check(match); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, gameID); err != nil {
		return fmt.Errorf("can't delete game: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

func (that *sqliteGame) load(ctx context.Context, querier sqlQuerier, gameID string) (*entity.Match, error) {
	var (
		game      entity.Game
		phase     string
		createdAt int64
	)

	err := querier.QueryRowContext(ctx,
		`SELECT id, name, host_id, guest_id, phase, created_at FROM games WHERE id = ?`, gameID,
	).Scan(&game.ID, &game.Name, &game.HostID, &game.GuestID, &phase, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	game.Phase = entity.GamePhase(phase)
	game.CreatedAt = time.UnixMilli(createdAt).UTC()

	match := &entity.Match{Game: &game}

	var (
		board []byte
		rules entity.Rules
	)

	err = querier.QueryRowContext(ctx,
		`SELECT board, is_guest_turn, is_host_initialized, is_guest_initialized FROM stratego_status WHERE game_id = ?`, gameID,
	).Scan(&board, &rules.IsGuestTurn, &rules.IsHostInitialized, &rules.IsGuestInitialized)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("can't find game status: %w", err)
	default:
		if err = that.codec.Unmarshal(board, &rules.Board); err != nil {
			return nil, fmt.Errorf("can't decode board: %w", err)
		}

		match.Rules = &rules
	}

	var (
		record         entity.MovementRecord
		movementCreate int64
	)

	err = querier.QueryRowContext(ctx,
		`SELECT rank_, row_initial, col_initial, row_final, col_final, is_guest_turn, outcome, created_at
		FROM stratego_movements WHERE game_id = ? ORDER BY id DESC LIMIT 1`, gameID,
	).Scan(
		&record.Rank, &record.RowInitial, &record.ColInitial, &record.RowFinal, &record.ColFinal,
		&record.IsGuestTurn, &record.Outcome, &movementCreate,
	)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("can't find last movement: %w", err)
	default:
		record.CreatedAt = time.UnixMilli(movementCreate).UTC()
		match.LastMovement = &record
	}

	return match, nil
}

func (that *sqliteGame) save(ctx context.Context, tx *sql.Tx, gameID string, match *entity.Match) error {
	game := match.Game

	_, err := tx.ExecContext(ctx,
		`UPDATE games SET name = ?, host_id = ?, guest_id = ?, phase = ? WHERE id = ?`,
		game.Name, game.HostID, game.GuestID, string(game.Phase), gameID,
	)
	if err != nil {
		return fmt.Errorf("can't update game: %w", err)
	}

	if match.Rules != nil {
		board, err := that.codec.Marshal(match.Rules.Board)
		if err != nil {
			return fmt.Errorf("can't encode board: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO stratego_status (game_id, board, is_guest_turn, is_host_initialized, is_guest_initialized)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (game_id) DO UPDATE SET
				board = excluded.board,
				is_guest_turn = excluded.is_guest_turn,
				is_host_initialized = excluded.is_host_initialized,
				is_guest_initialized = excluded.is_guest_initialized`,
			gameID, board, match.Rules.IsGuestTurn, match.Rules.IsHostInitialized, match.Rules.IsGuestInitialized,
		)
		if err != nil {
			return fmt.Errorf("can't save game status: %w", err)
		}
	}

	for _, record := range match.Recorded() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stratego_movements
			(game_id, rank_, row_initial, col_initial, row_final, col_final, is_guest_turn, outcome, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID, string(record.Rank), record.RowInitial, record.ColInitial, record.RowFinal, record.ColFinal,
			record.IsGuestTurn, string(record.Outcome), record.CreatedAt.UTC().UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("can't save movement: %w", err)
		}
	}

	return nil
}
