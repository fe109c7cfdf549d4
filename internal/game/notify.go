package game

// Outbound message types. The boundary adapter reuses these as envelope
// type strings on the wire.
const (
	MsgGameCreated    = "gameCreated"
	MsgPlayerList     = "playerList"
	MsgPlayerJoined   = "playerJoined"
	MsgGameStarted    = "gameStarted"
	MsgGameState      = "gameStateUpdate"
	MsgGameReconnect  = "gameReconnected"
	MsgRoundResult    = "roundResult"
	MsgPrivateEvent   = "privateEvent"
	MsgTrophyAwarded  = "trophyAwarded"
	MsgError          = "errorMessage"
)

// Notifier fans room output out to connected clients. The bus adapter
// implements it; NopNotifier keeps tests free of transport concerns.
// Per-connection send order must match call order.
type Notifier interface {
	Send(connID uint64, msgType string, payload any)
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) Send(uint64, string, any) {}

// PlayerView is the per-viewer projection of a player. IsWarlock is only
// populated when the viewer is the player themselves.
type PlayerView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Race         string            `json:"race,omitempty"`
	Class        string            `json:"class,omitempty"`
	Level        int               `json:"level"`
	HP           int               `json:"hp"`
	MaxHP        int               `json:"maxHp"`
	Armor        int               `json:"armor"`
	Alive        bool              `json:"alive"`
	Ready        bool              `json:"ready"`
	IsHost       bool              `json:"isHost"`
	Disconnected bool              `json:"disconnected"`
	IsWarlock    *bool             `json:"isWarlock,omitempty"`
	Effects      []string          `json:"effects,omitempty"`
	Cooldowns    map[string]int    `json:"cooldowns,omitempty"`
	RacialUses   int               `json:"racialUses"`
	Stats        SessionStats      `json:"stats"`
}

// MonsterView is the client-visible monster state.
type MonsterView struct {
	HP         int `json:"hp"`
	MaxHP      int `json:"maxHp"`
	Level      int `json:"level"`
	NextDamage int `json:"nextDamage"`
}

// LevelUpInfo reports a level transition inside a round result.
type LevelUpInfo struct {
	OldLevel int `json:"oldLevel"`
	NewLevel int `json:"newLevel"`
}

// RoundResult is the per-viewer outcome of one resolved round.
type RoundResult struct {
	Turn    int             `json:"turn"`
	Level   int             `json:"level"`
	Events  []RenderedEvent `json:"eventsLog"`
	Players []PlayerView    `json:"players"`
	Monster MonsterView     `json:"monster"`
	LevelUp *LevelUpInfo    `json:"levelUp,omitempty"`
	Winner  string          `json:"winner,omitempty"`
}

// PlayerListPayload is broadcast whenever lobby composition changes.
type PlayerListPayload struct {
	Players []PlayerView `json:"players"`
	Host    string       `json:"host"`
}

// GameStatePayload is the full state snapshot used for game start and
// reconnects.
type GameStatePayload struct {
	Players []PlayerView `json:"players"`
	Monster MonsterView  `json:"monster"`
	Turn    int          `json:"turn"`
	Level   int          `json:"level"`
	Started bool         `json:"started"`
	Host    string       `json:"host"`
}

// ErrorPayload carries a surfaced error to its originator.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// viewPlayer projects p for the given viewer.
func (r *Room) viewPlayer(p *Player, viewerID string) PlayerView {
	v := PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		Race:         p.Race,
		Class:        p.Class,
		Level:        p.Level,
		HP:           p.HP,
		MaxHP:        p.MaxHP,
		Armor:        p.EffectiveArmor(),
		Alive:        p.Alive,
		Ready:        p.Ready,
		IsHost:       p.ID == r.HostID,
		Disconnected: p.Disconnected,
		RacialUses:   p.Racial.UsesLeft,
		Stats:        p.Stats,
	}
	if p.ID == viewerID {
		flag := p.IsWarlock
		v.IsWarlock = &flag
		v.Cooldowns = p.Cooldowns
	}
	for _, kind := range effectTickOrder {
		if _, ok := p.Effects[kind]; ok && kind != EffectImmuneNext {
			v.Effects = append(v.Effects, string(kind))
		}
	}
	return v
}

func (r *Room) viewPlayers(viewerID string) []PlayerView {
	players := r.playersInOrder()
	out := make([]PlayerView, 0, len(players))
	for _, p := range players {
		out = append(out, r.viewPlayer(p, viewerID))
	}
	return out
}

func (r *Room) viewMonster() MonsterView {
	return MonsterView{
		HP:         r.Monster.HP,
		MaxHP:      r.Monster.MaxHP,
		Level:      r.Monster.Level,
		NextDamage: r.monsterCtl.NextDamage(),
	}
}

// broadcast sends a personalized payload to every connected player.
func (r *Room) broadcast(msgType string, build func(viewer *Player) any) {
	for _, p := range r.playersInOrder() {
		if p.ConnID == 0 {
			continue
		}
		r.notifier.Send(p.ConnID, msgType, build(p))
	}
}

func (r *Room) broadcastPlayerList() {
	r.broadcast(MsgPlayerList, func(viewer *Player) any {
		return PlayerListPayload{
			Players: r.viewPlayers(viewer.ID),
			Host:    r.HostID,
		}
	})
}

func (r *Room) gameStateFor(viewerID string) GameStatePayload {
	return GameStatePayload{
		Players: r.viewPlayers(viewerID),
		Monster: r.viewMonster(),
		Turn:    r.Turn,
		Level:   r.Level,
		Started: r.Phase == PhaseAction || r.Phase == PhaseResults,
		Host:    r.HostID,
	}
}
