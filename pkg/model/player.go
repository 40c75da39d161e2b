package model

import "time"

// Identity is the opaque caller identity supplied by the authentication domain
type Identity string

// Player is a player profile
type Player struct {
	Identity    Identity  `json:"identity"`
	Alias       string    `json:"pirateAlias"`
	Doubloons   int       `json:"doubloons"`
	GamesPlayed int       `json:"gamesPlayed"`
	GamesWon    int       `json:"gamesWon"`
	Created     time.Time `json:"created"`
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	return &cp
}
