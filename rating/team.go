package rating

import "math"

// EmptyTeamRating is the rating of a team with no members.
const EmptyTeamRating = 0

// TeamRating returns the truncated integer mean of the member ratings,
// or EmptyTeamRating when there are none.
func TeamRating(ratings []int) int {
	if len(ratings) == 0 {
		return EmptyTeamRating
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}

// Bounds of a stored rating, the range of a Postgres INTEGER column.
const (
	MinRating = math.MinInt32
	MaxRating = math.MaxInt32
)

// InRange reports whether r can be stored as a player rating.
func InRange(r int) bool {
	return r >= MinRating && r <= MaxRating
}
