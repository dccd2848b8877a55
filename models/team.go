package models

import (
	"time"

	"github.com/Dosada05/ranked-hc/rating"
)

// Team хранит состав и производный рейтинг команды.
// Rating вычисляется агрегатором и не задаётся напрямую.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Roster []string `json:"roster" db:"-"`
}

func (t Team) Rank() rating.Rank {
	return rating.Classify(t.Rating)
}
