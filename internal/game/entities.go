package game

import "time"

// Arena geometry and entity defaults are shared with client rendering.
const (
	ArenaWidth     = 1100.0
	ArenaHeight    = 700.0
	TeleportMargin = 20.0

	PlayerRadius    = 15.0
	PlayerBaseSpeed = 3.0
	PlayerMaxHealth = 100.0

	TowerSize      = 40.0
	TowerMaxHealth = 200.0
)

// Player is a joined connection's avatar.
type Player struct {
	ID        string
	Name      string
	Team      Team
	X         float64
	Y         float64
	VX        float64
	VY        float64
	Health    float64
	MaxHealth float64
	Radius    float64
	Speed     float64
	Effects   StatusEffects
	Cooldowns Cooldowns
	Score     int
}

func newPlayer(id, name string, team Team) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Team:      team,
		Health:    PlayerMaxHealth,
		MaxHealth: PlayerMaxHealth,
		Radius:    PlayerRadius,
		Speed:     PlayerBaseSpeed,
		Effects:   make(StatusEffects),
		Cooldowns: make(Cooldowns),
	}
}

// Progress is capture progress in tenths of a percent, 0..ProgressFull.
type Progress int

const (
	ProgressFull     Progress = 1000
	progressPerEnemy Progress = 8
	progressDecay    Progress = 3
)

// Percent converts to the 0..100 scale used on the wire.
func (p Progress) Percent() float64 {
	return float64(p) / 10
}

// Tower is a capturable control point. Health is carried for clients but no
// mechanic reduces it.
type Tower struct {
	ID            string
	Team          Team
	X             float64
	Y             float64
	Size          float64
	Health        float64
	MaxHealth     float64
	ControlledBy  Team
	CapturingTeam Team
	Progress      Progress
}

// newTowers builds the four home towers, each owned by its team.
func newTowers() []*Tower {
	towers := make([]*Tower, 0, len(Teams))
	for i, team := range Teams {
		home := homePositions[team]
		towers = append(towers, &Tower{
			ID:           towerID(i),
			Team:         team,
			X:            home.X,
			Y:            home.Y,
			Size:         TowerSize,
			Health:       TowerMaxHealth,
			MaxHealth:    TowerMaxHealth,
			ControlledBy: team,
		})
	}
	return towers
}

func towerID(i int) string {
	return "tower_" + string(rune('0'+i))
}

// VisualEffect is a transient broadcast-only record (laser beams).
type VisualEffect struct {
	Kind     string
	X1       float64
	Y1       float64
	X2       float64
	Y2       float64
	Start    time.Time
	Duration time.Duration
}

func (e VisualEffect) live(now time.Time) bool {
	return now.Sub(e.Start) < e.Duration
}
