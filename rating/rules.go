package rating

// Rules is the rules text shown next to the leaderboard.
var Rules = []string{
	"Players must know how to play Handcricket (HC) to register.",
	"Rank is based on ELO points.",
	"Runs scored between r and r+10 give +(r+10) ELO points. Example: 40-50 runs give +50 ELO.",
	"Misconduct by a player costs -500 ELO.",
	"Misconduct by a single team player costs the team -1000 ELO.",
	"For Aided Wickets (AW), the bowler gets +20 ELO and the player who helped with the numerical decision gets +10 ELO.",
	"No passes allowed in batting, unless the player is unwell.",
	"Each wicket taken gives +20 ELO.",
	"No 6-limit matches allowed. Only 10-limit matches.",
	"The player with the highest added ELO in a match is POTM (Player of the Match).",
	"Team ELO is the average of playing members' ELOs: sum(ELOs)/number of players.",
}
