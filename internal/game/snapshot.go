package game

import "time"

// PlayerView is the client projection of a player.
type PlayerView struct {
	ID        string       `json:"id"`
	Team      Team         `json:"team"`
	Name      string       `json:"name"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Health    float64      `json:"health"`
	MaxHealth float64      `json:"maxHealth"`
	Effects   []EffectKind `json:"effects"`
	Score     int          `json:"score"`
}

// TowerView is the client projection of a tower. CaptureProgress is a
// percentage in [0,100].
type TowerView struct {
	ID              string  `json:"id"`
	Team            Team    `json:"team"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Size            float64 `json:"size"`
	Health          float64 `json:"health"`
	MaxHealth       float64 `json:"maxHealth"`
	Controlled      Team    `json:"controlled"`
	CapturingTeam   *Team   `json:"capturingTeam"`
	CaptureProgress float64 `json:"captureProgress"`
}

// EffectView is the client projection of a visual effect. Times are in ms.
type EffectView struct {
	Type      string  `json:"type"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	StartTime int64   `json:"startTime"`
	Duration  int64   `json:"duration"`
}

// ClientState is the full snapshot sent on connect and every tick.
type ClientState struct {
	Players     []PlayerView `json:"players"`
	Towers      []TowerView  `json:"towers"`
	Effects     []EffectView `json:"effects"`
	GameStarted bool         `json:"gameStarted"`
	Phase       Phase        `json:"phase"`
	Round       int          `json:"round"`
	Timer       int          `json:"timer"`
	MaxRounds   int          `json:"maxRounds"`
	TeamScores  TeamTally    `json:"teamScores"`
	TeamCounts  TeamTally    `json:"teamCounts"`
	ServerTime  int64        `json:"serverTime"`
}

func viewPlayer(p *Player, now time.Time) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Team:      p.Team,
		Name:      p.Name,
		X:         p.X,
		Y:         p.Y,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Effects:   p.Effects.Active(now),
		Score:     p.Score,
	}
}

func summarizePlayer(p *Player) PlayerSummary {
	return PlayerSummary{
		ID:        p.ID,
		Team:      p.Team,
		Name:      p.Name,
		X:         p.X,
		Y:         p.Y,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
	}
}

func viewTower(t *Tower) TowerView {
	view := TowerView{
		ID:              t.ID,
		Team:            t.Team,
		X:               t.X,
		Y:               t.Y,
		Size:            t.Size,
		Health:          t.Health,
		MaxHealth:       t.MaxHealth,
		Controlled:      t.ControlledBy,
		CaptureProgress: t.Progress.Percent(),
	}
	if t.CapturingTeam != TeamNone {
		team := t.CapturingTeam
		view.CapturingTeam = &team
	}
	return view
}

// Snapshot projects the world for clients. The result shares no memory with
// the live state.
func (g *Game) Snapshot(now time.Time) ClientState {
	s := g.state
	players := make([]PlayerView, 0, len(s.order))
	for _, p := range s.OrderedPlayers() {
		players = append(players, viewPlayer(p, now))
	}
	towers := make([]TowerView, 0, len(s.Towers))
	for _, t := range s.Towers {
		towers = append(towers, viewTower(t))
	}
	effects := make([]EffectView, 0, len(s.Effects))
	for _, e := range s.Effects {
		if !e.live(now) {
			continue
		}
		effects = append(effects, EffectView{
			Type:      e.Kind,
			X1:        e.X1,
			Y1:        e.Y1,
			X2:        e.X2,
			Y2:        e.Y2,
			StartTime: e.Start.UnixMilli(),
			Duration:  e.Duration.Milliseconds(),
		})
	}
	return ClientState{
		Players:     players,
		Towers:      towers,
		Effects:     effects,
		GameStarted: s.Started,
		Phase:       s.Phase,
		Round:       s.Round,
		Timer:       s.Timer,
		MaxRounds:   s.MaxRounds,
		TeamScores:  s.TeamScores.Clone(),
		TeamCounts:  s.TeamCounts.Clone(),
		ServerTime:  now.UnixMilli(),
	}
}
