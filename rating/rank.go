package rating

import (
	"fmt"
	"strings"
)

// DefaultRating назначается игроку, если рейтинг не задан или не распознан.
const DefaultRating = 1000

// Rank вычисляется только из текущего рейтинга.
type Rank int

const (
	RankGetLost Rank = iota
	RankNewbie
	RankPro
	RankHacker
	RankGod
	RankLegend
)

// Tier describes one rank with its half-open rating range [Min, Max).
// Max is nil for the top tier.
type Tier struct {
	Rank  Rank   `json:"-"`
	Label string `json:"label"`
	Min   *int   `json:"min,omitempty"`
	Max   *int   `json:"max,omitempty"`
}

var labels = [...]string{
	RankGetLost: "Get Lost",
	RankNewbie:  "Newbie",
	RankPro:     "Pro",
	RankHacker:  "Hacker",
	RankGod:     "God",
	RankLegend:  "Legend",
}

// lower bounds of every rank above RankGetLost, in order
var thresholds = [...]int{1000, 3000, 5000, 7000, 9000}

// Classify maps a rating to its rank. Every integer is valid input.
func Classify(r int) Rank {
	rank := RankGetLost
	for i, lower := range thresholds {
		if r < lower {
			break
		}
		rank = Rank(i + 1)
	}
	return rank
}

func (r Rank) String() string {
	if r < RankGetLost || r > RankLegend {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return labels[r]
}

func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseRank is the inverse of Rank.String, ignoring case and surrounding spaces.
func ParseRank(s string) (Rank, error) {
	s = strings.TrimSpace(s)
	for i, l := range labels {
		if strings.EqualFold(l, s) {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// Ranks returns all tiers from lowest to highest.
func Ranks() []Tier {
	tiers := make([]Tier, 0, len(labels))
	for i := range labels {
		t := Tier{Rank: Rank(i), Label: labels[i]}
		if i > 0 {
			lo := thresholds[i-1]
			t.Min = &lo
		}
		if i < len(thresholds) {
			hi := thresholds[i]
			t.Max = &hi
		}
		tiers = append(tiers, t)
	}
	return tiers
}
