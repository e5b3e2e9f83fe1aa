package dice

import "go.uber.org/zap"

// Roller wraps a Source and logs every roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
// A nil logger disables logging.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// D rolls one die with the given number of sides.
//
// Precondition: sides >= 1.
// Postcondition: Returns a value in [1, sides].
func (r *Roller) D(sides int) int {
	v := r.src.Intn(sides) + 1
	r.logger.Debug("dice roll", zap.Int("sides", sides), zap.Int("result", v))
	return v
}

// Percent reports whether a d100 roll lands at or under chance.
// chance <= 0 never succeeds and chance >= 100 always does; neither case consumes a roll.
func (r *Roller) Percent(chance float64) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	roll := r.src.Intn(100) + 1
	hit := float64(roll) <= chance
	r.logger.Debug("percent roll",
		zap.Float64("chance", chance),
		zap.Int("roll", roll),
		zap.Bool("success", hit),
	)
	return hit
}
