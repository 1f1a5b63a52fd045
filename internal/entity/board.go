package entity

const (
	BoardSize = 10

	ArmyRows    = 4
	ArmyColumns = BoardSize
)

// Tile is an occupied board cell. A nil *Tile is an empty, crossable cell.
type Tile struct {
	Rank        Rank `json:"rank"`
	IsHostOwner bool `json:"isHostOwner"`
}

// Board is indexed as board[row][col]. Tiles are never mutated in place, only replaced,
// so copying a Board by value yields an independent board.
type Board [BoardSize][BoardSize]*Tile

// lakes are the fixed DISABLED squares in the middle of the board.
var lakes = [][2]int{
	{4, 2}, {4, 3}, {5, 2}, {5, 3},
	{4, 6}, {4, 7}, {5, 6}, {5, 7},
}

func EmptyBoard() Board {
	var board Board

	for _, lake := range lakes {
		board[lake[0]][lake[1]] = &Tile{Rank: Disabled}
	}

	return board
}

func IsLake(row, col int) bool {
	for _, lake := range lakes {
		if lake[0] == row && lake[1] == col {
			return true
		}
	}

	return false
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that *Board) Tile(row, col int) *Tile {
	return that[row][col]
}

// SetTile replaces the cell content; nil empties it. Indices must already be validated.
func (that *Board) SetTile(row, col int, tile *Tile) {
	that[row][col] = tile
}

// PlaceHostArmy copies the setup into rows 0..3 keeping its orientation.
func (that *Board) PlaceHostArmy(setup ArmySetup) {
	for row := range ArmyRows {
		for col := range ArmyColumns {
			that.SetTile(row, col, &Tile{Rank: setup[row][col], IsHostOwner: true})
		}
	}
}

// PlaceGuestArmy copies the setup into rows 9..6 mirrored on both axes,
// so setup (row, col) lands on board (9-row, 9-col).
func (that *Board) PlaceGuestArmy(setup ArmySetup) {
	last := BoardSize - 1

	for row := range ArmyRows {
		for col := range ArmyColumns {
			that.SetTile(last-row, col, &Tile{Rank: setup[row][last-col], IsHostOwner: false})
		}
	}
}
