package protocol

import (
	"encoding/json"
	"fmt"
)

// Inbound command types. These are the envelope type strings clients send;
// the server's outbound types live with the game package since rooms pick
// them when they notify.
const (
	CmdCreateGame      = "createGame"
	CmdJoinGame        = "joinGame"
	CmdSelectCharacter = "selectCharacter"
	CmdToggleReady     = "toggleReady"
	CmdStartGame       = "startGame"
	CmdPerformAction   = "performAction"
	CmdUseRacial       = "useRacialAbility"
	CmdReconnect       = "reconnectToGame"
	CmdLeaveGame       = "leaveGame"
)

// Envelope is the wire shape of every message in either direction:
// a type tag plus a type-specific JSON body.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode parses one raw frame payload into an envelope.
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode envelope: missing type")
	}
	return &env, nil
}

// Encode builds the raw bytes of one outbound envelope.
func Encode(msgType string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		data = b
	}
	b, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", msgType, err)
	}
	return b, nil
}

// CreateGame opens a new room and seats the sender as host.
type CreateGame struct {
	PlayerName string `json:"playerName"`
}

// JoinGame seats the sender in an existing room.
type JoinGame struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

// SelectCharacter picks a race/class pair during character select.
type SelectCharacter struct {
	GameCode string `json:"gameCode"`
	Race     string `json:"race"`
	Class    string `json:"class"`
}

// ToggleReady marks the sender ready to start.
type ToggleReady struct {
	GameCode string `json:"gameCode"`
}

// StartGame begins the game; host only.
type StartGame struct {
	GameCode string `json:"gameCode"`
}

// PerformAction submits the sender's class ability for this round.
type PerformAction struct {
	GameCode   string `json:"gameCode"`
	ActionType string `json:"actionType"`
	TargetID   string `json:"targetId"`
}

// UseRacial submits the sender's racial ability for this round.
// AbilityType is the class ability to trade away when the racial needs
// one (adapt); other racials ignore it.
type UseRacial struct {
	GameCode    string `json:"gameCode"`
	TargetID    string `json:"targetId"`
	AbilityType string `json:"abilityType"`
}

// Reconnect reclaims a disconnected seat by player name.
type Reconnect struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

// LeaveGame gives up the sender's seat.
type LeaveGame struct {
	GameCode string `json:"gameCode"`
}
