package game

import "strings"

// Team is one of the four fixed factions. The empty Team means "none".
type Team string

const (
	TeamNone   Team = ""
	TeamRed    Team = "red"
	TeamBlue   Team = "blue"
	TeamGreen  Team = "green"
	TeamYellow Team = "yellow"
)

// Teams lists every faction in the canonical order used for score iteration
// and tie breaking.
var Teams = []Team{TeamRed, TeamBlue, TeamGreen, TeamYellow}

// ParseTeam normalizes a wire team name.
func ParseTeam(raw string) (Team, bool) {
	team := Team(strings.ToLower(strings.TrimSpace(raw)))
	return team, team.Valid()
}

func (t Team) Valid() bool {
	switch t {
	case TeamRed, TeamBlue, TeamGreen, TeamYellow:
		return true
	default:
		return false
	}
}

// Point is an arena coordinate.
type Point struct {
	X float64
	Y float64
}

// Home towers and spawn points share coordinates.
var homePositions = map[Team]Point{
	TeamRed:    {X: 150, Y: 150},
	TeamBlue:   {X: 950, Y: 150},
	TeamGreen:  {X: 150, Y: 550},
	TeamYellow: {X: 950, Y: 550},
}

// SpawnPoint returns the centre of the team's spawn area.
func SpawnPoint(team Team) Point {
	if p, ok := homePositions[team]; ok {
		return p
	}
	return Point{X: ArenaWidth / 2, Y: ArenaHeight / 2}
}

// TeamTally maps every team to an integer (scores, roster counts).
type TeamTally map[Team]int

func newTeamTally() TeamTally {
	tally := make(TeamTally, len(Teams))
	for _, team := range Teams {
		tally[team] = 0
	}
	return tally
}

func (t TeamTally) Clone() TeamTally {
	cloned := make(TeamTally, len(t))
	for team, v := range t {
		cloned[team] = v
	}
	return cloned
}

// Strings converts the tally for logging payloads.
func (t TeamTally) Strings() map[string]int {
	out := make(map[string]int, len(t))
	for team, v := range t {
		out[string(team)] = v
	}
	return out
}
