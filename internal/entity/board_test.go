package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBoard(t *testing.T) {
	// Given: a fresh board
	board := EmptyBoard()

	// Then: only the eight lake squares are filled
	filled := 0
	for row := range BoardSize {
		for col := range BoardSize {
			tile := board.Tile(row, col)
			if tile == nil {
				assert.False(t, IsLake(row, col), "(%d, %d)", row, col)
				continue
			}

			filled++
			assert.True(t, IsLake(row, col), "(%d, %d)", row, col)
			assert.Equal(t, Disabled, tile.Rank)
		}
	}

	assert.Equal(t, 8, filled)
}

func TestInBounds(t *testing.T) {
	assert.True(t, InBounds(0, 0))
	assert.True(t, InBounds(9, 9))
	assert.False(t, InBounds(-1, 0))
	assert.False(t, InBounds(0, 10))
	assert.False(t, InBounds(10, 5))
}

func TestBoard_PlaceArmies(t *testing.T) {
	t.Run("Host army keeps its orientation", func(t *testing.T) {
		// Given: an empty board and a valid setup
		board := EmptyBoard()
		army := validArmy()

		// When: the host army is placed
		board.PlaceHostArmy(army)

		// Then: setup (row, col) lands on board (row, col) owned by the host
		for row := range ArmyRows {
			for col := range ArmyColumns {
				tile := board.Tile(row, col)
				require.NotNil(t, tile)
				assert.Equal(t, army[row][col], tile.Rank)
				assert.True(t, tile.IsHostOwner)
			}
		}
	})

	t.Run("Guest army is mirrored on both axes", func(t *testing.T) {
		// Given: an empty board and a valid setup
		board := EmptyBoard()
		army := validArmy()

		// When: the guest army is placed
		board.PlaceGuestArmy(army)

		// Then: setup (row, col) lands on board (9-row, 9-col) owned by the guest
		for row := range ArmyRows {
			for col := range ArmyColumns {
				tile := board.Tile(9-row, 9-col)
				require.NotNil(t, tile)
				assert.Equal(t, army[row][col], tile.Rank)
				assert.False(t, tile.IsHostOwner)
			}
		}

		assert.Equal(t, Marshal, board.Tile(9, 9).Rank)
		assert.Equal(t, Flag, board.Tile(6, 0).Rank)
	})

	t.Run("Both armies leave the middle rows untouched", func(t *testing.T) {
		// Given: an empty board
		board := EmptyBoard()

		// When: both armies are placed
		board.PlaceHostArmy(validArmy())
		board.PlaceGuestArmy(validArmy())

		// Then: rows 4 and 5 only contain lakes
		for row := 4; row <= 5; row++ {
			for col := range BoardSize {
				if IsLake(row, col) {
					assert.Equal(t, Disabled, board.Tile(row, col).Rank)
				} else {
					assert.Nil(t, board.Tile(row, col))
				}
			}
		}
	})
}
