package game

import "time"

// Phase is the round/game lifecycle state.
type Phase string

const (
	PhaseNotStarted  Phase = "not_started"
	PhaseRunning     Phase = "running"
	PhaseRoundEnding Phase = "round_ending"
	PhaseGameEnded   Phase = "game_ended"
	PhaseResetting   Phase = "resetting"
)

// State is the aggregate root: the only mutable world data. It is owned by a
// single Game and must only be touched from the goroutine driving it.
type State struct {
	Players    map[string]*Player
	Towers     []*Tower
	Effects    []VisualEffect
	TeamScores TeamTally
	TeamCounts TeamTally
	Started    bool
	Phase      Phase
	Round      int
	Timer      int
	MaxRounds  int

	// order is the join order; every player scan iterates it.
	order []string
}

func newState(cfg Config) *State {
	return &State{
		Players:    make(map[string]*Player),
		Towers:     newTowers(),
		TeamScores: newTeamTally(),
		TeamCounts: newTeamTally(),
		Phase:      PhaseNotStarted,
		Round:      1,
		Timer:      cfg.RoundSeconds,
		MaxRounds:  cfg.MaxRounds,
	}
}

// Player looks up a joined player.
func (s *State) Player(id string) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// Tower looks up a tower by id.
func (s *State) Tower(id string) (*Tower, bool) {
	for _, t := range s.Towers {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// OrderedPlayers returns players in join order.
func (s *State) OrderedPlayers() []*Player {
	players := make([]*Player, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (s *State) addPlayer(p *Player) {
	s.Players[p.ID] = p
	s.order = append(s.order, p.ID)
	s.TeamCounts[p.Team]++
}

func (s *State) removePlayer(id string) (*Player, bool) {
	p, ok := s.Players[id]
	if !ok {
		return nil, false
	}
	delete(s.Players, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.TeamCounts[p.Team] > 0 {
		s.TeamCounts[p.Team]--
	}
	return p, true
}

func (s *State) pruneEffects(now time.Time) {
	kept := s.Effects[:0]
	for _, effect := range s.Effects {
		if effect.live(now) {
			kept = append(kept, effect)
		}
	}
	s.Effects = kept
}
