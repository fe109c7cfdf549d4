package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/warlock/server/internal/catalog"
	"go.uber.org/zap"
)

// Phase is the room state machine position.
type Phase string

const (
	PhaseLobby           Phase = "lobby"
	PhaseCharacterSelect Phase = "characterSelect"
	PhaseAction          Phase = "action"
	PhaseResults         Phase = "results"
	PhaseEnded           Phase = "ended"
)

// Options configures a room. Zero-value fields fall back to sane defaults
// so tests can construct rooms with two lines.
type Options struct {
	Catalog        *catalog.Catalog
	Balance        *catalog.Balance // defaults to Catalog.Balance()
	Formulas       Formulas         // defaults to Balance
	RNG            RNG              // defaults to a time-seeded rand
	Log            *zap.Logger
	Notifier       Notifier
	MinPlayers     int
	MaxPlayers     int
	TurnTimeout    time.Duration
	ReconnectGrace time.Duration
}

// Room is one game instance. All mutation happens on the room worker (or,
// in tests, a single goroutine), giving a single-writer model with no
// internal locking.
type Room struct {
	Code    string
	Players map[string]*Player
	Monster *Monster
	Phase   Phase
	Turn    int
	Level   int
	HostID  string

	cat      *catalog.Catalog
	bal      *catalog.Balance
	formulas Formulas
	rng      RNG
	log      *zap.Logger
	notifier Notifier

	minPlayers     int
	maxPlayers     int
	turnTimeout    time.Duration
	reconnectGrace time.Duration

	joinSeq   int
	submitSeq int
	actions   map[string]*Action
	racials   []*Action

	status     *StatusEffectManager
	coord      *CoordinationTracker
	calc       *DamageCalculator
	combat     *CombatSystem
	warlocks   *WarlockSystem
	monsterCtl *MonsterController
	abilities  *AbilityRegistry
	roundLog   *Log

	ops       chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	started   bool // worker running; gates the deadline timer
	deadline  *time.Timer
}

// NewRoom builds a room in the Lobby phase. Call Start to launch the
// worker; tests drive the room directly instead.
func NewRoom(code string, opts Options) *Room {
	if opts.Balance == nil {
		opts.Balance = opts.Catalog.Balance()
	}
	if opts.Formulas == nil {
		opts.Formulas = opts.Balance
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.MinPlayers == 0 {
		opts.MinPlayers = 3
	}
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = 20
	}

	r := &Room{
		Code:           code,
		Players:        make(map[string]*Player),
		Phase:          PhaseLobby,
		Level:          1,
		cat:            opts.Catalog,
		bal:            opts.Balance,
		formulas:       opts.Formulas,
		rng:            opts.RNG,
		log:            opts.Log.With(zap.String("room", code)),
		notifier:       opts.Notifier,
		minPlayers:     opts.MinPlayers,
		maxPlayers:     opts.MaxPlayers,
		turnTimeout:    opts.TurnTimeout,
		reconnectGrace: opts.ReconnectGrace,
		actions:        make(map[string]*Action),
		ops:            make(chan func(), 64),
		closeCh:        make(chan struct{}),
	}
	r.Monster = &Monster{Level: 1}
	r.status = NewStatusEffectManager(opts.Catalog)
	r.coord = NewCoordinationTracker(r.bal.Coordination.BonusPerAttacker, r.bal.Coordination.MaxBonus)
	r.calc = NewDamageCalculator(r.bal)
	r.combat = NewCombatSystem(r)
	r.warlocks = NewWarlockSystem(r)
	r.monsterCtl = NewMonsterController(r)
	r.abilities = NewAbilityRegistry()
	r.roundLog = NewLog(opts.Catalog)
	r.monsterCtl.Respawn(1)
	return r
}

// Start launches the room worker goroutine.
func (r *Room) Start() {
	r.started = true
	go r.run()
}

func (r *Room) run() {
	for {
		select {
		case fn := <-r.ops:
			fn()
		case <-r.closeCh:
			return
		}
	}
}

// Post enqueues fn for execution on the room worker.
func (r *Room) Post(fn func()) {
	select {
	case r.ops <- fn:
	case <-r.closeCh:
	}
}

// Call runs fn on the room worker and waits for completion. ErrRoomClosed
// means the room shut down before fn could run; fn's results must not be
// trusted in that case.
func (r *Room) Call(fn func()) error {
	done := make(chan struct{})
	select {
	case r.ops <- func() {
		fn()
		close(done)
	}:
	case <-r.closeCh:
		return ErrRoomClosed
	}
	select {
	case <-done:
		return nil
	case <-r.closeCh:
		return ErrRoomClosed
	}
}

// Close tears the room down and informs remaining clients. The farewell
// loop reads room state, so on a started room it runs on the worker;
// closeCh is only closed once it has finished, after which Post and Call
// refuse further work.
func (r *Room) Close(reason string) {
	r.closeOnce.Do(func() {
		farewell := func() {
			if r.deadline != nil {
				r.deadline.Stop()
			}
			for _, p := range r.Players {
				if p.ConnID != 0 {
					r.notifier.Send(p.ConnID, MsgError, ErrorPayload{
						Kind:    KindState.String(),
						Message: reason,
					})
				}
			}
		}
		if r.started {
			done := make(chan struct{})
			r.ops <- func() {
				farewell()
				close(done)
			}
			<-done
		} else {
			farewell()
		}
		close(r.closeCh)
		r.log.Info("room closed", zap.String("reason", reason))
	})
}

// WarlockCount exposes the warlock counter for invariant checks.
func (r *Room) WarlockCount() int { return r.warlocks.Count() }

// StartedPlaying reports whether the game is past character select.
func (r *Room) StartedPlaying() bool {
	return r.Phase == PhaseAction || r.Phase == PhaseResults || r.Phase == PhaseEnded
}

// AddPlayer joins a new connection under the given display name.
func (r *Room) AddPlayer(connID uint64, name string) (string, error) {
	if r.StartedPlaying() {
		return "", ErrRoomStarted
	}
	if len(r.Players) >= r.maxPlayers {
		return "", ErrRoomFull
	}
	if r.findByName(name) != nil {
		return "", ErrNameDuplicate
	}
	r.joinSeq++
	id := fmt.Sprintf("%s-p%d", r.Code, r.joinSeq)
	p := NewPlayer(id, connID, name, r.joinSeq, r.bal)
	r.Players[id] = p
	if r.HostID == "" {
		r.HostID = id
	}
	r.log.Info("player joined", zap.String("player", name))
	r.broadcastPlayerList()
	return id, nil
}

// SelectCharacter assigns race and class; the first successful selection
// moves the lobby into character select.
func (r *Room) SelectCharacter(playerID, raceID, classID string) error {
	if r.Phase != PhaseLobby && r.Phase != PhaseCharacterSelect {
		return ErrWrongPhase
	}
	p := r.Players[playerID]
	if p == nil {
		return ErrPlayerNotFound
	}
	if r.cat.Race(raceID) == nil {
		return ErrUnknownRace
	}
	if r.cat.Class(classID) == nil {
		return ErrUnknownClass
	}
	if !r.cat.Compatible(raceID, classID) {
		return ErrIncompatible
	}
	p.Race = raceID
	p.Class = classID
	if r.Phase == PhaseLobby {
		r.Phase = PhaseCharacterSelect
	}
	r.broadcastPlayerList()
	return nil
}

// MarkReady flags a player as ready to start.
func (r *Room) MarkReady(playerID string) error {
	if r.Phase != PhaseLobby && r.Phase != PhaseCharacterSelect {
		return ErrWrongPhase
	}
	p := r.Players[playerID]
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Race == "" || p.Class == "" {
		return ErrNotReady
	}
	p.Ready = true
	r.broadcastPlayerList()
	return nil
}

// StartGame begins play: host-only, all ready, enough players. Abilities
// are granted, racials armed, the initial warlock drawn, and the first
// action phase opened.
func (r *Room) StartGame(callerID string) error {
	if r.StartedPlaying() {
		return ErrRoomStarted
	}
	if callerID != r.HostID {
		return ErrNotHost
	}
	if len(r.Players) < r.minPlayers {
		return ErrTooFew
	}
	for _, p := range r.Players {
		if !p.Ready || p.Race == "" || p.Class == "" {
			return ErrNotReady
		}
	}

	for _, p := range r.playersInOrder() {
		class := r.cat.Class(p.Class)
		p.Abilities = append([]*catalog.Ability(nil), class.Abilities...)
		p.Level = r.Level
		r.initRacial(p)
	}

	startLog := NewLog(r.cat)
	r.warlocks.AssignInitialWarlock("", startLog)
	r.deliverPrivateEvents(startLog)

	r.Phase = PhaseAction
	r.Turn = 1
	r.armDeadline()
	r.log.Info("game started", zap.Int("players", len(r.Players)))

	r.broadcast(MsgGameStarted, func(viewer *Player) any {
		return r.gameStateFor(viewer.ID)
	})
	return nil
}

// SubmitAction buffers a class action; when every alive, able player has
// submitted, the round resolves.
func (r *Room) SubmitAction(playerID, abilityID, targetID string) error {
	if r.Phase != PhaseAction {
		return ErrWrongPhase
	}
	p := r.Players[playerID]
	if p == nil {
		return ErrPlayerNotFound
	}
	if _, dup := r.actions[playerID]; dup {
		return ErrDuplicateAction
	}
	ability := p.HasUnlocked(abilityID)
	if ability == nil {
		if r.cat.Ability(abilityID) == nil {
			return ErrUnknownAbility
		}
		return ErrLocked
	}
	if err := p.CanUse(ability); err != nil {
		return err
	}
	if _, err := r.ValidateTarget(p, ability, targetID); err != nil {
		return err
	}

	r.submitSeq++
	r.actions[playerID] = &Action{
		ActorID:   playerID,
		AbilityID: abilityID,
		TargetID:  targetID,
		Kind:      ActionClass,
		Seq:       r.submitSeq,
	}
	if r.allSubmitted() {
		r.resolveRound()
	}
	return nil
}

// SubmitRacial buffers a racial activation alongside the class action.
func (r *Room) SubmitRacial(playerID, targetID string) error {
	if r.Phase != PhaseAction {
		return ErrWrongPhase
	}
	p := r.Players[playerID]
	if p == nil {
		return ErrPlayerNotFound
	}
	if !p.Alive {
		return ErrDead
	}
	if r.status.IsStunned(p) {
		return ErrStunned
	}
	racial := p.Racial.Ability
	if racial == nil || racial.Usage == catalog.UsagePassive {
		return ErrUnknownAbility
	}
	if p.Racial.UsesLeft <= 0 {
		return ErrNoRacialUses
	}
	for _, a := range r.racials {
		if a.ActorID == playerID {
			return ErrDuplicateAction
		}
	}
	r.submitSeq++
	r.racials = append(r.racials, &Action{
		ActorID:   playerID,
		AbilityID: racial.ID,
		TargetID:  targetID,
		Kind:      ActionRacial,
		Seq:       r.submitSeq,
	})
	return nil
}

// allSubmitted applies the phase-advance rule: stunned and disconnected
// players count as auto-submitted no-ops.
func (r *Room) allSubmitted() bool {
	for _, p := range r.Players {
		if !p.Alive || p.Disconnected || r.status.IsStunned(p) {
			continue
		}
		if _, ok := r.actions[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (r *Room) armDeadline() {
	if !r.started || r.turnTimeout <= 0 {
		return
	}
	if r.deadline != nil {
		r.deadline.Stop()
	}
	turn := r.Turn
	r.deadline = time.AfterFunc(r.turnTimeout, func() {
		r.Post(func() {
			if r.Phase == PhaseAction && r.Turn == turn {
				r.log.Debug("turn deadline elapsed, resolving with no-ops")
				r.resolveRound()
			}
		})
	})
}

// Disconnect marks the player for the given connection as disconnected and
// starts the reconnect grace window. In the lobby the player is removed
// outright.
func (r *Room) Disconnect(connID uint64) {
	var p *Player
	for _, cand := range r.Players {
		if cand.ConnID == connID {
			p = cand
			break
		}
	}
	if p == nil {
		return
	}
	if !r.StartedPlaying() {
		delete(r.Players, p.ID)
		if r.HostID == p.ID {
			r.HostID = ""
			for _, next := range r.playersInOrder() {
				r.HostID = next.ID
				break
			}
		}
		r.broadcastPlayerList()
		return
	}
	p.ConnID = 0
	p.Disconnected = true
	p.DisconnectedAt = time.Now()
	r.log.Info("player disconnected", zap.String("player", p.Name))
	// Host duty moves to the first connected alive player; the seat
	// remembers, so a reconnect within grace takes it back.
	if r.HostID == p.ID {
		p.WasHost = true
		for _, next := range r.playersInOrder() {
			if next.ID != p.ID && next.Alive && !next.Disconnected {
				r.HostID = next.ID
				break
			}
		}
	}
	r.broadcastPlayerList()
	// A round blocked on this player may now be resolvable.
	if r.Phase == PhaseAction && r.allSubmitted() && len(r.actions) > 0 {
		r.resolveRound()
	}
}

// Reconnect reattaches a new connection to a disconnected slot matched by
// name, within the grace period. The persistent player id transfers to the
// new connection.
func (r *Room) Reconnect(name string, connID uint64) (*Player, error) {
	p := r.findByName(name)
	if p == nil || !p.Disconnected {
		return nil, ErrNoSlot
	}
	if r.reconnectGrace > 0 && time.Since(p.DisconnectedAt) > r.reconnectGrace {
		return nil, ErrGracePassed
	}
	p.ConnID = connID
	p.Disconnected = false
	// A returning host takes the room back.
	if p.WasHost || r.HostID == "" {
		r.HostID = p.ID
	}
	p.WasHost = false
	r.log.Info("player reconnected", zap.String("player", p.Name))
	r.notifier.Send(connID, MsgGameReconnect, r.gameStateFor(p.ID))
	r.broadcastPlayerList()
	return p, nil
}

// Leave removes a player permanently after the grace period, or marks a
// voluntary quit.
func (r *Room) Leave(playerID string) {
	p := r.Players[playerID]
	if p == nil {
		return
	}
	if !r.StartedPlaying() {
		delete(r.Players, playerID)
		if r.HostID == playerID {
			r.HostID = ""
			for _, next := range r.playersInOrder() {
				r.HostID = next.ID
				break
			}
		}
		r.broadcastPlayerList()
		return
	}
	if p.Alive {
		p.Alive = false
		if p.IsWarlock {
			p.IsWarlock = false
			r.warlocks.Decrement()
		}
	}
	p.ConnID = 0
	p.Disconnected = true
	r.broadcastPlayerList()
	if r.Phase == PhaseAction && r.allSubmitted() && len(r.actions) > 0 {
		r.resolveRound()
	}
}

// deliverPrivateEvents pushes non-round private events (role assignment,
// reveals) to their viewers immediately.
func (r *Room) deliverPrivateEvents(log *Log) {
	for _, p := range r.playersInOrder() {
		if p.ConnID == 0 {
			continue
		}
		events := log.RenderFor(p.ID)
		if len(events) == 0 {
			continue
		}
		r.notifier.Send(p.ConnID, MsgPrivateEvent, map[string]any{"events": events})
	}
}
