package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Battle owns two rosters and drives them turn by turn. It is not safe for
// concurrent use; independent battles must not share actors.
type Battle struct {
	id        string
	players   []*Actor
	enemies   []*Actor
	turnOrder []*Actor
	turn      int
	phase     Phase
	order     TurnOrderPolicy
	statuses  *status.Registry
	src       dice.Source
	roller    *dice.Roller
	logger    *zap.Logger
	lastActed map[*Actor]int
	history   []Event
}

// Option configures a Battle at construction.
type Option func(*Battle)

// WithID overrides the generated battle ID.
func WithID(id string) Option { return func(b *Battle) { b.id = id } }

// WithLogger sets the logger narration and rolls are written to.
func WithLogger(l *zap.Logger) Option { return func(b *Battle) { b.logger = l } }

// WithSource sets the randomness source for critical-hit rolls.
func WithSource(src dice.Source) Option { return func(b *Battle) { b.src = src } }

// WithTurnOrderPolicy selects snapshot or per-round turn ordering.
func WithTurnOrderPolicy(p TurnOrderPolicy) Option { return func(b *Battle) { b.order = p } }

// WithStatuses sets the registry skill effects grant statuses from.
func WithStatuses(reg *status.Registry) Option { return func(b *Battle) { b.statuses = reg } }

// NewBattle creates a battle in the Setup phase. Turn order is the stable sort
// of players followed by enemies, highest initiative first.
//
// Postcondition: Returns ErrEmptyRoster if both rosters are empty and
// ErrDuplicateActor if any actor appears twice; otherwise TurnOrder() is a
// permutation of players and enemies.
func NewBattle(players, enemies []*Actor, opts ...Option) (*Battle, error) {
	if len(players)+len(enemies) == 0 {
		return nil, ErrEmptyRoster
	}
	seen := make(map[string]bool, len(players)+len(enemies))
	for _, a := range append(append([]*Actor{}, players...), enemies...) {
		if a == nil {
			return nil, fmt.Errorf("combat: nil actor in roster")
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: %s (%s)", ErrDuplicateActor, a.Name, a.ID)
		}
		seen[a.ID] = true
	}
	b := &Battle{
		id:        uuid.NewString(),
		players:   append([]*Actor(nil), players...),
		enemies:   append([]*Actor(nil), enemies...),
		logger:    zap.NewNop(),
		statuses:  status.NewRegistry(),
		lastActed: make(map[*Actor]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.src == nil {
		b.src = dice.NewCryptoSource()
	}
	b.logger = b.logger.With(zap.String("battle_id", b.id))
	b.roller = dice.NewLoggedRoller(b.src, b.logger)
	b.turnOrder = b.sortedRoster()
	return b, nil
}

// ID returns the battle's identifier.
func (b *Battle) ID() string { return b.id }

// Roller is the battle's dice roller. Policies that roll dice use it so a
// seeded battle replays identically.
func (b *Battle) Roller() *dice.Roller { return b.roller }

// Players returns a copy of the player roster.
func (b *Battle) Players() []*Actor { return append([]*Actor(nil), b.players...) }

// Enemies returns a copy of the enemy roster.
func (b *Battle) Enemies() []*Actor { return append([]*Actor(nil), b.enemies...) }

// Allies returns the roster a belongs to, a included.
func (b *Battle) Allies(a *Actor) []*Actor {
	if a.IsPlayer() {
		return b.Players()
	}
	return b.Enemies()
}

// Foes returns the roster opposing a.
func (b *Battle) Foes(a *Actor) []*Actor {
	if a.IsPlayer() {
		return b.Enemies()
	}
	return b.Players()
}

// TurnOrder returns a copy of the current turn order.
func (b *Battle) TurnOrder() []*Actor { return append([]*Actor(nil), b.turnOrder...) }

// Turn returns the number of turns taken so far.
func (b *Battle) Turn() int { return b.turn }

// Round returns the zero-based round the current turn belongs to.
func (b *Battle) Round() int { return b.turn / len(b.turnOrder) }

// ActiveAgent returns the actor whose turn it is. Defeated actors are not skipped.
//
// Postcondition: Returns TurnOrder()[Turn() % len(TurnOrder())].
func (b *Battle) ActiveAgent() *Actor {
	return b.turnOrder[b.turn%len(b.turnOrder)]
}

// NextTurn advances the turn counter. Under PerRound ordering the turn order is
// re-sorted whenever a new round begins.
func (b *Battle) NextTurn() {
	b.turn++
	if b.phase == PhaseSetup {
		b.phase = PhaseInProgress
	}
	if b.order == PerRound && b.turn%len(b.turnOrder) == 0 {
		b.turnOrder = b.sortedRoster()
	}
}

// IsOver reports whether every player or every enemy is defeated. An empty
// roster counts as defeated.
func (b *Battle) IsOver() bool {
	return allDefeated(b.players) || allDefeated(b.enemies)
}

// Outcome reports Victory or Defeat once the battle is over, else Undecided.
func (b *Battle) Outcome() Outcome {
	if !b.IsOver() {
		return Undecided
	}
	if allDefeated(b.players) {
		return Defeat
	}
	return Victory
}

// Phase returns the battle's lifecycle state.
func (b *Battle) Phase() Phase {
	if b.phase != PhaseOver && b.IsOver() {
		return PhaseOver
	}
	return b.phase
}

// Events returns every event produced by Step so far.
func (b *Battle) Events() []Event { return append([]Event(nil), b.history...) }

// Step resolves one full turn for the active agent: pre-turn statuses, its
// action, post-turn statuses and the status tick, then advances the turn.
//
// Postcondition: Returns ErrBattleOver without mutating anything if IsOver()
// was already true.
func (b *Battle) Step() ([]Event, error) {
	if b.IsOver() {
		b.phase = PhaseOver
		return nil, ErrBattleOver
	}
	b.phase = PhaseInProgress
	actor := b.ActiveAgent()
	var events []Event
	if !actor.IsDefeated() {
		events = append(events, b.resolveStatuses(actor, status.PreTurn)...)
		switch {
		case actor.IsDefeated():
		case b.skipsTurn(actor):
			events = append(events, b.event(EventSkipped, actor, nil, 0,
				fmt.Sprintf("%s cannot act.", actor.Name)))
		default:
			events = append(events, actor.Act(b)...)
		}
		if !actor.IsDefeated() {
			events = append(events, b.resolveStatuses(actor, status.PostTurn)...)
		}
		events = append(events, b.tickStatuses(actor)...)
	}
	b.NextTurn()
	if b.IsOver() {
		b.phase = PhaseOver
	}
	b.history = append(b.history, events...)
	return events, nil
}

// Conclude ends the battle: every actor's ability scores, attributes and
// derived stats return to base and all statuses are dropped.
//
// Postcondition: Phase() == PhaseOver.
func (b *Battle) Conclude() {
	for _, a := range b.turnOrder {
		a.conclude()
	}
	b.phase = PhaseOver
	b.logger.Info("battle concluded",
		zap.Int("turns", b.turn),
		zap.Stringer("outcome", b.Outcome()),
	)
}

// defaultTarget is the first member of a's opposing roster, standing or not,
// or nil when that roster is empty.
func (b *Battle) defaultTarget(a *Actor) *Actor {
	foes := b.Foes(a)
	if len(foes) == 0 {
		return nil
	}
	return foes[0]
}

// attack deals a's current strength to target. A nil target does nothing.
func (b *Battle) attack(a, target *Actor) []Event {
	if target == nil {
		return nil
	}
	wasDefeated := target.IsDefeated()
	dmg := a.Stats.Strength.Current
	target.Stats.Health.Current -= dmg
	events := []Event{b.event(EventAttack, a, target, dmg,
		fmt.Sprintf("%s attacks %s for %d damage.", a.Name, target.Name, dmg))}
	if wasDefeated {
		return events
	}
	return append(events, b.checkDefeated(target)...)
}

func (b *Battle) checkDefeated(a *Actor) []Event {
	if !a.IsDefeated() {
		return nil
	}
	return []Event{b.event(EventDefeated, a, nil, 0, fmt.Sprintf("%s is defeated.", a.Name))}
}

func (b *Battle) markActed(a *Actor) { b.lastActed[a] = b.turn }

// event builds an Event for the current turn and logs it at debug.
func (b *Battle) event(kind EventKind, actor, target *Actor, amount int, narrative string) Event {
	e := Event{
		Turn:      b.turn,
		Kind:      kind,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Amount:    amount,
		Narrative: narrative,
	}
	if target != nil {
		e.TargetID = target.ID
		e.TargetName = target.Name
	}
	b.logger.Debug(narrative,
		zap.Int("turn", e.Turn),
		zap.String("kind", string(kind)),
		zapActor(actor),
		zap.String("target", e.TargetName),
		zap.Int("amount", amount),
	)
	return e
}

func (b *Battle) sortedRoster() []*Actor {
	roster := make([]*Actor, 0, len(b.players)+len(b.enemies))
	roster = append(roster, b.players...)
	roster = append(roster, b.enemies...)
	sortByInitiativeDesc(roster)
	return roster
}

// sortByInitiativeDesc sorts actors in place, highest initiative first. Ties
// keep their input order.
func sortByInitiativeDesc(actors []*Actor) {
	n := len(actors)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && actors[j].Initiative() > actors[j-1].Initiative(); j-- {
			actors[j], actors[j-1] = actors[j-1], actors[j]
		}
	}
}

func allDefeated(actors []*Actor) bool {
	for _, a := range actors {
		if !a.IsDefeated() {
			return false
		}
	}
	return true
}

func zapActor(a *Actor) zap.Field { return zap.String("actor", a.Name) }

func zapSkill(s *catalog.Skill) zap.Field { return zap.String("skill", s.Name) }
