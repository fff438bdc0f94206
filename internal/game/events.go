package game

// Event is an outbound notification. EventName is the wire message type.
type Event interface {
	EventName() string
}

// Notifier delivers notifications to connected clients. Implementations must
// not block: delivery is fire-and-forget.
type Notifier interface {
	Broadcast(event Event)
	SendTo(playerID string, event Event)
	BroadcastExcept(playerID string, event Event)
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(Event)               {}
func (nopNotifier) SendTo(string, Event)          {}
func (nopNotifier) BroadcastExcept(string, Event) {}

// Wire names of every notification.
const (
	EventGameState          = "game_state"
	EventGameUpdate         = "game_update"
	EventPlayerJoined       = "player_joined"
	EventTeamFull           = "team_full"
	EventPlayerConnected    = "player_connected"
	EventPlayerDisconnected = "player_disconnected"
	EventGameStarted        = "game_started"
	EventWeaponUsed         = "weapon_used"
	EventWeaponCooldown     = "weapon_cooldown"
	EventChatMessage        = "chat_message"
	EventTowerCaptured      = "tower_captured"
	EventRoundEnded         = "round_ended"
	EventRoundStarted       = "round_started"
	EventGameEnded          = "game_ended"
	EventGameReset          = "game_reset"
)

// InitialState is the snapshot sent to a connection when it opens.
type InitialState struct {
	ClientState
}

func (InitialState) EventName() string { return EventGameState }

// StateUpdate is the per-tick snapshot broadcast while a game runs.
type StateUpdate struct {
	ClientState
}

func (StateUpdate) EventName() string { return EventGameUpdate }

type PlayerJoined struct {
	PlayerID string     `json:"playerId"`
	Team     Team       `json:"team"`
	Player   PlayerView `json:"player"`
}

func (PlayerJoined) EventName() string { return EventPlayerJoined }

type TeamFull struct {
	Team string `json:"team"`
}

func (TeamFull) EventName() string { return EventTeamFull }

// PlayerSummary is the subset announced to other clients on join.
type PlayerSummary struct {
	ID        string  `json:"id"`
	Team      Team    `json:"team"`
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
}

type PlayerConnected struct {
	Player PlayerSummary `json:"player"`
}

func (PlayerConnected) EventName() string { return EventPlayerConnected }

type PlayerDisconnected struct {
	PlayerID string `json:"playerId"`
}

func (PlayerDisconnected) EventName() string { return EventPlayerDisconnected }

type GameStarted struct {
	Round int `json:"round"`
	Timer int `json:"timer"`
}

func (GameStarted) EventName() string { return EventGameStarted }

type WeaponUsed struct {
	PlayerID string     `json:"playerId"`
	Weapon   WeaponKind `json:"weapon"`
	TargetX  float64    `json:"targetX"`
	TargetY  float64    `json:"targetY"`
}

func (WeaponUsed) EventName() string { return EventWeaponUsed }

type WeaponCooldown struct {
	Weapon      WeaponKind `json:"weapon"`
	RemainingMs int64      `json:"remainingMs"`
}

func (WeaponCooldown) EventName() string { return EventWeaponCooldown }

type ChatMessage struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Team       Team   `json:"team"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

func (ChatMessage) EventName() string { return EventChatMessage }

type TowerCaptured struct {
	TowerID  string `json:"towerId"`
	NewOwner Team   `json:"newOwner"`
	Message  string `json:"message"`
}

func (TowerCaptured) EventName() string { return EventTowerCaptured }

type RoundEnded struct {
	Round       int       `json:"round"`
	RoundScores TeamTally `json:"roundScores"`
	TotalScores TeamTally `json:"totalScores"`
	Message     string    `json:"message"`
}

func (RoundEnded) EventName() string { return EventRoundEnded }

type RoundStarted struct {
	Round int `json:"round"`
	Timer int `json:"timer"`
}

func (RoundStarted) EventName() string { return EventRoundStarted }

type GameEnded struct {
	Winner      Team      `json:"winner"`
	FinalScores TeamTally `json:"finalScores"`
	Message     string    `json:"message"`
}

func (GameEnded) EventName() string { return EventGameEnded }

type GameReset struct{}

func (GameReset) EventName() string { return EventGameReset }
