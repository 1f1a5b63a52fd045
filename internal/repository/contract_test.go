package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
)

var errRejected = errors.New("rejected")

// testGameRepository runs the storage contract against a fresh repository per subtest.
func testGameRepository(t *testing.T, newRepo func(t *testing.T) (context.Context, GameRepository)) {
	t.Helper()

	t.Run("CreateGame_Success", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a new game
		game := entity.NewGame("game-1", "friendly", "host")

		// When: it is created and loaded back
		require.NoError(t, repo.CreateGame(ctx, game))
		match, err := repo.Load(ctx, game.ID)

		// Then: the game is returned without rules or movements
		require.NoError(t, err)
		assert.Equal(t, game.ID, match.Game.ID)
		assert.Equal(t, game.Name, match.Game.Name)
		assert.Equal(t, game.HostID, match.Game.HostID)
		assert.Equal(t, entity.PhaseWaitingForSetup2Players, match.Game.Phase)
		assert.Nil(t, match.Rules)
		assert.Nil(t, match.LastMovement)
	})

	t.Run("CreateGame_Duplicate", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		game := entity.NewGame("game-1", "friendly", "host")
		require.NoError(t, repo.CreateGame(ctx, game))

		// When: the same id is created again
		err := repo.CreateGame(ctx, entity.NewGame("game-1", "other", "someone"))

		// Then: the game already exists and the first one is kept
		require.ErrorIs(t, err, ErrGameAlreadyExists)

		match, err := repo.Load(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, "host", match.Game.HostID)
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		_, err := repo.Load(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Update_PersistsEverything", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		require.NoError(t, repo.CreateGame(ctx, entity.NewGame("game-1", "friendly", "host")))

		first := entity.Movement{Rank: entity.Scout, RowInitial: 3, ColInitial: 0, RowFinal: 4, ColFinal: 0}
		second := entity.Movement{Rank: entity.Miner, RowInitial: 6, ColInitial: 1, RowFinal: 5, ColFinal: 1}

		// When: the game, the rules and two movements are written in one update
		err := repo.Update(ctx, "game-1", func(match *entity.Match) error {
			match.Game.GuestID = "guest"
			match.Game.Phase = entity.PhasePlaying

			match.Rules = entity.NewRules()
			match.Rules.IsGuestTurn = true
			match.Rules.IsHostInitialized = true
			match.Rules.Board.SetTile(3, 1, &entity.Tile{Rank: entity.Marshal, IsHostOwner: true})
			match.Rules.Board.SetTile(6, 8, &entity.Tile{Rank: entity.Flag})

			match.Record(entity.MovementRecord{Movement: first, Outcome: entity.OutcomeMoved, CreatedAt: time.Now().UTC()})
			match.Record(entity.MovementRecord{Movement: second, IsGuestTurn: true, Outcome: entity.OutcomeWon, CreatedAt: time.Now().UTC()})

			return nil
		})
		require.NoError(t, err)

		// Then: everything is loaded back
		match, err := repo.Load(ctx, "game-1")
		require.NoError(t, err)

		assert.Equal(t, "guest", match.Game.GuestID)
		assert.Equal(t, entity.PhasePlaying, match.Game.Phase)

		require.NotNil(t, match.Rules)
		assert.True(t, match.Rules.IsGuestTurn)
		assert.True(t, match.Rules.IsHostInitialized)
		assert.False(t, match.Rules.IsGuestInitialized)
		assert.Equal(t, &entity.Tile{Rank: entity.Marshal, IsHostOwner: true}, match.Rules.Board.Tile(3, 1))
		assert.Equal(t, &entity.Tile{Rank: entity.Flag}, match.Rules.Board.Tile(6, 8))
		assert.Equal(t, entity.Disabled, match.Rules.Board.Tile(4, 2).Rank)
		assert.Nil(t, match.Rules.Board.Tile(0, 0))

		require.NotNil(t, match.LastMovement)
		assert.Equal(t, second, match.LastMovement.Movement)
		assert.True(t, match.LastMovement.IsGuestTurn)
		assert.Equal(t, entity.OutcomeWon, match.LastMovement.Outcome)

		// And: the history is in order
		records, err := repo.ListMovements(ctx, "game-1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, first, records[0].Movement)
		assert.Equal(t, entity.OutcomeMoved, records[0].Outcome)
		assert.Equal(t, second, records[1].Movement)
		assert.False(t, records[1].CreatedAt.IsZero())
	})

	t.Run("Update_ErrorDiscardsChanges", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		require.NoError(t, repo.CreateGame(ctx, entity.NewGame("game-1", "friendly", "host")))

		// When: the update function fails after changing the match
		err := repo.Update(ctx, "game-1", func(match *entity.Match) error {
			match.Game.Phase = entity.PhaseAborted
			match.Rules = entity.NewRules()
			match.Record(entity.MovementRecord{Movement: entity.Movement{Rank: entity.Scout}, Outcome: entity.OutcomeMoved})

			return errRejected
		})

		// Then: the error is returned and nothing is written
		require.ErrorIs(t, err, errRejected)

		match, err := repo.Load(ctx, "game-1")
		require.NoError(t, err)
		assert.Equal(t, entity.PhaseWaitingForSetup2Players, match.Game.Phase)
		assert.Nil(t, match.Rules)

		records, err := repo.ListMovements(ctx, "game-1")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		called := false
		err := repo.Update(ctx, "missing", func(*entity.Match) error {
			called = true
			return nil
		})

		require.ErrorIs(t, err, apperror.ErrNotFound)
		assert.False(t, called)
	})

	t.Run("Update_ConcurrentWritersAreSerialized", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		require.NoError(t, repo.CreateGame(ctx, entity.NewGame("game-1", "friendly", "host")))

		const writers = 8

		// When: several writers append one movement each, based on what they read
		var wg sync.WaitGroup
		errs := make(chan error, writers)

		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()

				errs <- repo.Update(ctx, "game-1", func(match *entity.Match) error {
					next := 0
					if match.LastMovement != nil {
						next = match.LastMovement.RowFinal + 1
					}

					match.Record(entity.MovementRecord{
						Movement: entity.Movement{Rank: entity.Scout, RowFinal: next},
						Outcome:  entity.OutcomeMoved,
					})

					return nil
				})
			}()
		}

		wg.Wait()
		close(errs)

		// Then: no write is lost and every writer saw the previous one
		for err := range errs {
			require.NoError(t, err)
		}

		records, err := repo.ListMovements(ctx, "game-1")
		require.NoError(t, err)
		require.Len(t, records, writers)

		for i, record := range records {
			assert.Equal(t, i, record.RowFinal)
		}
	})

	t.Run("ListMovements_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		_, err := repo.ListMovements(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("DeleteGame", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a game with rules and history
		require.NoError(t, repo.CreateGame(ctx, entity.NewGame("game-1", "friendly", "host")))
		require.NoError(t, repo.Update(ctx, "game-1", func(match *entity.Match) error {
			match.Rules = entity.NewRules()
			match.Record(entity.MovementRecord{Movement: entity.Movement{Rank: entity.Scout}, Outcome: entity.OutcomeMoved})

			return nil
		}))

		// When: it is deleted
		require.NoError(t, repo.DeleteGame(ctx, "game-1", nil))

		// Then: nothing is left
		_, err := repo.Load(ctx, "game-1")
		require.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = repo.ListMovements(ctx, "game-1")
		require.ErrorIs(t, err, apperror.ErrNotFound)

		err = repo.DeleteGame(ctx, "game-1", nil)
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("DeleteGame_CheckRejects", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		require.NoError(t, repo.CreateGame(ctx, entity.NewGame("game-1", "friendly", "host")))

		// When: the check refuses the deletion
		var checked *entity.Match
		err := repo.DeleteGame(ctx, "game-1", func(match *entity.Match) error {
			checked = match
			return errRejected
		})

		// Then: the check saw the stored game and nothing was deleted
		require.ErrorIs(t, err, errRejected)
		require.NotNil(t, checked)
		assert.Equal(t, "host", checked.Game.HostID)

		_, err = repo.Load(ctx, "game-1")
		require.NoError(t, err)
	})

	t.Run("Load_ConsistentWhileWriting", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a started game where every update flips the turn and records the mover
		require.NoError(t, repo.CreateGame(ctx, entity.NewGame("game-1", "friendly", "host")))
		require.NoError(t, repo.Update(ctx, "game-1", func(match *entity.Match) error {
			match.Rules = entity.NewRules()
			return nil
		}))

		const updates = 200

		done := make(chan error, 1)
		go func() {
			for range updates {
				err := repo.Update(ctx, "game-1", func(match *entity.Match) error {
					mover := match.Rules.IsGuestTurn
					match.Rules.IsGuestTurn = !mover
					match.Record(entity.MovementRecord{
						Movement:    entity.Movement{Rank: entity.Scout},
						IsGuestTurn: mover,
						Outcome:     entity.OutcomeMoved,
					})

					return nil
				})
				if err != nil {
					done <- err
					return
				}
			}

			done <- nil
		}()

		// When: the game is loaded while the updates run
		reads, torn := 0, 0

		for writing := true; writing; {
			select {
			case err := <-done:
				require.NoError(t, err)
				writing = false
			default:
			}

			match, err := repo.Load(ctx, "game-1")
			require.NoError(t, err)

			reads++
			if match.LastMovement != nil && match.LastMovement.IsGuestTurn == match.Rules.IsGuestTurn {
				torn++
			}
		}

		// Then: every load saw the turn and the last movement of the same update
		assert.Positive(t, reads)
		assert.Zero(t, torn, "%d of %d loads mixed two updates", torn, reads)
	})
}
