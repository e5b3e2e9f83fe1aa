// Package combat implements the turn-based battle engine: actors, initiative
// turn order, action resolution against the 3x3 grid and end-of-battle checks.
package combat

import "errors"

// Kind distinguishes player actors from enemy actors.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns "player" or "enemy".
func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "enemy"
}

// Phase is the lifecycle state of a Battle.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInProgress
	PhaseOver
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseInProgress:
		return "in progress"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Outcome is the result of a battle from the players' side.
type Outcome int

const (
	Undecided Outcome = iota
	Victory
	Defeat
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Victory:
		return "Victory"
	case Defeat:
		return "Defeat"
	default:
		return "Undecided"
	}
}

// TurnOrderPolicy controls whether turn order follows live initiative.
type TurnOrderPolicy int

const (
	// SnapshotOrder fixes turn order at construction.
	SnapshotOrder TurnOrderPolicy = iota
	// PerRound re-sorts turn order by current initiative at every round boundary.
	PerRound
)

// ParseTurnOrderPolicy resolves "snapshot" or "per_round".
func ParseTurnOrderPolicy(s string) (TurnOrderPolicy, error) {
	switch s {
	case "", "snapshot":
		return SnapshotOrder, nil
	case "per_round":
		return PerRound, nil
	}
	return SnapshotOrder, errors.New("turn order policy must be \"snapshot\" or \"per_round\"")
}

var (
	ErrEmptyRoster           = errors.New("combat: battle requires at least one actor")
	ErrDuplicateActor        = errors.New("combat: actor listed more than once")
	ErrBattleOver            = errors.New("combat: battle is over")
	ErrActorDefeated         = errors.New("combat: actor is defeated")
	ErrTargetDefeated        = errors.New("combat: target is defeated")
	ErrNotUsableFromPosition = errors.New("combat: skill not usable from current position")
	ErrTargetOutOfReach      = errors.New("combat: target position out of reach")
	ErrInsufficientResources = errors.New("combat: insufficient mana")
	ErrSkillUnavailable      = errors.New("combat: skill not available to family")
	ErrNoTarget              = errors.New("combat: no target")
	ErrUnknownStatus         = errors.New("combat: unknown status")
	ErrEquipmentUnavailable  = errors.New("combat: equipment not usable by family")
	ErrBattleExists          = errors.New("combat: battle already registered")
	ErrActorBusy             = errors.New("combat: actor already in an active battle")
)
