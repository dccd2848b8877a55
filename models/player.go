package models

import (
	"time"

	"github.com/Dosada05/ranked-hc/rating"
)

// Player хранит строку таблицы рейтинга. Abbreviation уникальна.
type Player struct {
	Abbreviation string    `json:"abbreviation" db:"abbreviation"`
	Rating       int       `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Rank is derived on every call and never stored.
func (p Player) Rank() rating.Rank {
	return rating.Classify(p.Rating)
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Sl           int         `json:"sl"`
	Abbreviation string      `json:"abbreviation"`
	Rating       int         `json:"rating"`
	Rank         rating.Rank `json:"rank" swaggertype:"string" example:"Pro"`
}

type Leaderboard struct {
	Players []LeaderboardEntry `json:"players"`
	Teams   []Team             `json:"teams"`
}

// LeaderboardFilter narrows the leaderboard. Zero value means no filtering.
type LeaderboardFilter struct {
	Search string
	Rank   *rating.Rank
}
