package parameter

// Grid
const (
	// GridWidth is the number of columns; col ranges over [0, GridWidth)
	GridWidth = 20

	// GridHeight is the number of rows; row ranges over [0, GridHeight)
	GridHeight = 10
)

// Scoring
const (
	// CoinReward is added to a player's score for each collected coin
	CoinReward = 10

	// MaxPlayers is the number of player slots in a match
	MaxPlayers = 2
)
