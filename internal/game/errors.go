package game

import "fmt"

// Kind classifies an error for surfacing policy: validation, state and
// not-found errors go back to the originator; invariant violations tear the
// room down.
type Kind int

const (
	KindValidation Kind = iota
	KindState
	KindNotFound
	KindCapacity
	KindAuth
	KindTransient
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindNotFound:
		return "not_found"
	case KindCapacity:
		return "capacity"
	case KindAuth:
		return "auth"
	case KindTransient:
		return "transient"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is a classified game error safe to surface to the originator.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Errf builds a classified error with a formatted message.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrRoomFull        = newErr(KindCapacity, "the room is full")
	ErrRoomStarted     = newErr(KindState, "the game has already started")
	ErrRoomClosed      = newErr(KindNotFound, "room is closed")
	ErrServerFull      = newErr(KindCapacity, "no room slots available")
	ErrRoomNotFound    = newErr(KindNotFound, "room not found")
	ErrCreateThrottled = newErr(KindTransient, "rooms are being created too quickly, try again")
	ErrPlayerNotFound  = newErr(KindNotFound, "player not found")
	ErrNameDuplicate   = newErr(KindValidation, "that name is already taken")
	ErrIncompatible    = newErr(KindValidation, "this race cannot play this class")
	ErrUnknownRace     = newErr(KindValidation, "unknown race")
	ErrUnknownClass    = newErr(KindValidation, "unknown class")
	ErrUnknownAbility  = newErr(KindValidation, "unknown ability")
	ErrWrongPhase      = newErr(KindState, "not allowed in the current phase")
	ErrNotHost         = newErr(KindAuth, "only the host may do that")
	ErrNotReady        = newErr(KindState, "not all players are ready")
	ErrTooFew          = newErr(KindState, "not enough players to start")
	ErrDead            = newErr(KindState, "dead players cannot act")
	ErrStunned         = newErr(KindState, "you are stunned")
	ErrOnCooldown      = newErr(KindState, "that ability is on cooldown")
	ErrLocked          = newErr(KindState, "that ability is not unlocked yet")
	ErrInvalidTarget   = newErr(KindValidation, "invalid target")
	ErrDuplicateAction = newErr(KindState, "action already submitted this round")
	ErrNoRacialUses    = newErr(KindState, "no racial uses remaining")
	ErrNoSlot          = newErr(KindNotFound, "no matching disconnected player")
	ErrGracePassed     = newErr(KindState, "the reconnect window has closed")
)
