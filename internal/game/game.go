package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"tower-wars/server/logging"
	logginglifecycle "tower-wars/server/logging/lifecycle"
)

const (
	maxNameRunes    = 24
	maxChatRunes    = 200
	spawnJitter     = 100.0
	maxIntentAxis   = 1.0
	defaultNameRoot = "Player_"
)

// Scheduler runs fn once after d on the goroutine that drives the Game, passing
// the instant it fired. The returned func cancels a pending callback.
type Scheduler interface {
	After(d time.Duration, fn func(now time.Time)) (cancel func())
}

// Deps bundles runtime dependencies required to construct a Game.
type Deps struct {
	Publisher logging.Publisher
	Notifier  Notifier
	Scheduler Scheduler
	RNG       RNGFactory
}

// Game is the authoritative simulation. It is not safe for concurrent use:
// input handlers, ticks and scheduled callbacks must all run on one goroutine.
type Game struct {
	config    Config
	state     *State
	publisher logging.Publisher
	notifier  Notifier
	scheduler Scheduler
	rng       *rand.Rand

	tick uint64

	// epoch advances on every reset so callbacks from an earlier game no-op.
	epoch       uint64
	cancelTimer func()
}

// New constructs a game with fresh towers in the not-started phase.
func New(cfg Config, deps Deps) (*Game, error) {
	if deps.Scheduler == nil {
		return nil, errors.New("game: scheduler is required")
	}
	normalized := cfg.normalized()

	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}

	return &Game{
		config:    normalized,
		state:     newState(normalized),
		publisher: publisher,
		notifier:  notifier,
		scheduler: deps.Scheduler,
		rng:       factory(normalized.Seed, "game"),
	}, nil
}

// Config returns the normalized configuration captured at construction time.
func (g *Game) Config() Config {
	return g.config
}

// State exposes the aggregate for read access on the owning goroutine.
func (g *Game) State() *State {
	return g.state
}

// Tick reports how many simulation steps have run.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Active reports whether the simulation clock should advance physics.
func (g *Game) Active() bool {
	return g.state.Started
}

// JoinResult reports the outcome of a join request.
type JoinResult struct {
	Accepted bool
	Reason   string
	Player   *Player
}

const (
	JoinRejectTeamFull      = "team_full"
	JoinRejectAlreadyJoined = "already_joined"
)

// Join creates a player on team for connection id. A full roster or an
// unknown team is refused with a team_full reply to the requester only.
func (g *Game) Join(id, rawTeam, name string, now time.Time) JoinResult {
	if _, exists := g.state.Player(id); exists {
		return JoinResult{Reason: JoinRejectAlreadyJoined}
	}
	team, ok := ParseTeam(rawTeam)
	if !ok || g.state.TeamCounts[team] >= g.config.MaxTeamSize {
		g.notifier.SendTo(id, TeamFull{Team: rawTeam})
		logginglifecycle.TeamFull(context.Background(), g.publisher, g.tick, logging.PlayerRef(id), logginglifecycle.TeamFullPayload{
			Team:  rawTeam,
			Count: g.state.TeamCounts[team],
			Limit: g.config.MaxTeamSize,
		}, nil)
		return JoinResult{Reason: JoinRejectTeamFull}
	}

	player := newPlayer(id, displayName(id, name), team)
	g.placeAtSpawn(player)
	g.state.addPlayer(player)

	g.notifier.SendTo(id, PlayerJoined{PlayerID: id, Team: team, Player: viewPlayer(player, now)})
	g.notifier.BroadcastExcept(id, PlayerConnected{Player: summarizePlayer(player)})
	logginglifecycle.PlayerJoined(context.Background(), g.publisher, g.tick, logging.PlayerRef(id), logginglifecycle.PlayerJoinedPayload{
		Team:   string(team),
		Name:   player.Name,
		SpawnX: player.X,
		SpawnY: player.Y,
	}, nil)
	return JoinResult{Accepted: true, Player: player}
}

// Leave removes a player and decrements its team roster. Unknown ids no-op.
func (g *Game) Leave(id string) bool {
	player, ok := g.state.removePlayer(id)
	if !ok {
		return false
	}
	g.notifier.BroadcastExcept(id, PlayerDisconnected{PlayerID: id})
	logginglifecycle.PlayerDisconnected(context.Background(), g.publisher, g.tick, logging.PlayerRef(id), logginglifecycle.PlayerDisconnectedPayload{
		Team:          string(player.Team),
		RemainingTeam: g.state.TeamCounts[player.Team],
	}, nil)
	return true
}

// SetVelocity stores the latest movement intent; the next tick consumes it.
// Each axis is clamped to [-1,1] and non-finite input is treated as zero.
func (g *Game) SetVelocity(id string, vx, vy float64) bool {
	player, ok := g.state.Player(id)
	if !ok {
		return false
	}
	if !finite(vx) {
		vx = 0
	}
	if !finite(vy) {
		vy = 0
	}
	player.VX = clamp(vx, -maxIntentAxis, maxIntentAxis)
	player.VY = clamp(vy, -maxIntentAxis, maxIntentAxis)
	return true
}

// Chat relays a message with sender metadata to every client.
func (g *Game) Chat(id, message string, now time.Time) bool {
	player, ok := g.state.Player(id)
	if !ok {
		return false
	}
	message = truncateRunes(strings.TrimSpace(message), maxChatRunes)
	if message == "" {
		return false
	}
	g.notifier.Broadcast(ChatMessage{
		PlayerID:   id,
		PlayerName: player.Name,
		Team:       player.Team,
		Message:    message,
		Timestamp:  now.UnixMilli(),
	})
	return true
}

// Greet sends the current snapshot to a freshly opened connection.
func (g *Game) Greet(id string, now time.Time) {
	g.notifier.SendTo(id, InitialState{ClientState: g.Snapshot(now)})
}

func (g *Game) placeAtSpawn(p *Player) {
	spawn := SpawnPoint(p.Team)
	p.X = spawn.X + jitter(g.rng, spawnJitter)
	p.Y = spawn.Y + jitter(g.rng, spawnJitter)
}

func displayName(id, name string) string {
	name = truncateRunes(strings.TrimSpace(name), maxNameRunes)
	if name != "" {
		return name
	}
	return defaultNameRoot + truncateRunes(id, 5)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
