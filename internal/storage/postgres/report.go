package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/skirmish"
)

// ErrReportNotFound is returned when a report lookup yields no results.
var ErrReportNotFound = errors.New("report not found")

// ReportEvent is the stored form of one battle event.
type ReportEvent struct {
	Turn      int    `json:"turn"`
	Kind      string `json:"kind"`
	Actor     string `json:"actor"`
	Target    string `json:"target,omitempty"`
	Amount    int    `json:"amount"`
	Critical  bool   `json:"critical,omitempty"`
	Narrative string `json:"narrative"`
}

// Report is the persisted summary of a finished battle. It records what
// happened; it is not a save of battle state.
type Report struct {
	ID          uuid.UUID
	BattleID    string
	EncounterID string
	Outcome     string
	Turns       int
	Survivors   []string
	Events      []ReportEvent
	CreatedAt   time.Time
}

// Tally counts stored outcomes for one encounter.
type Tally struct {
	Victories int
	Defeats   int
	Undecided int
}

// NewReport converts a battle result into a Report ready for Create.
func NewReport(encounterID string, res skirmish.Result) Report {
	r := Report{
		ID:          uuid.New(),
		BattleID:    res.BattleID,
		EncounterID: encounterID,
		Outcome:     res.Outcome.String(),
		Turns:       res.Turns,
		Survivors:   make([]string, 0, len(res.Survivors)),
		Events:      make([]ReportEvent, 0, len(res.Events)),
	}
	for _, s := range res.Survivors {
		r.Survivors = append(r.Survivors, s.Name)
	}
	for _, e := range res.Events {
		r.Events = append(r.Events, reportEvent(e))
	}
	return r
}

func reportEvent(e combat.Event) ReportEvent {
	return ReportEvent{
		Turn:      e.Turn,
		Kind:      string(e.Kind),
		Actor:     e.ActorName,
		Target:    e.TargetName,
		Amount:    e.Amount,
		Critical:  e.Critical,
		Narrative: e.Narrative,
	}
}

// ReportRepository provides battle report persistence operations.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts r and returns it with CreatedAt set.
//
// Precondition: r.ID must be set (NewReport does this).
// Postcondition: Returns the stored report, or an error.
func (r *ReportRepository) Create(ctx context.Context, rep Report) (Report, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO battle_reports
			(id, battle_id, encounter_id, outcome, turns, survivors, events)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		rep.ID, rep.BattleID, rep.EncounterID, rep.Outcome, rep.Turns, rep.Survivors, rep.Events,
	).Scan(&rep.CreatedAt)
	if err != nil {
		return Report{}, fmt.Errorf("inserting report: %w", err)
	}
	return rep, nil
}

// Get returns the report with id.
//
// Postcondition: Returns ErrReportNotFound if no report has that id.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (Report, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, battle_id, encounter_id, outcome, turns, survivors, events, created_at
		FROM battle_reports
		WHERE id = $1`, id)
	rep, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrReportNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("querying report: %w", err)
	}
	return rep, nil
}

// ListRecent returns up to limit reports, newest first.
//
// Precondition: limit >= 1.
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]Report, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, battle_id, encounter_id, outcome, turns, survivors, events, created_at
		FROM battle_reports
		ORDER BY created_at DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return out, nil
}

// TallyFor counts stored outcomes for encounterID.
func (r *ReportRepository) TallyFor(ctx context.Context, encounterID string) (Tally, error) {
	var t Tally
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE outcome = 'Victory'),
			COUNT(*) FILTER (WHERE outcome = 'Defeat'),
			COUNT(*) FILTER (WHERE outcome NOT IN ('Victory', 'Defeat'))
		FROM battle_reports
		WHERE encounter_id = $1`, encounterID,
	).Scan(&t.Victories, &t.Defeats, &t.Undecided)
	if err != nil {
		return Tally{}, fmt.Errorf("tallying reports for %q: %w", encounterID, err)
	}
	return t, nil
}

func scanReport(row pgx.Row) (Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.BattleID, &rep.EncounterID, &rep.Outcome, &rep.Turns,
		&rep.Survivors, &rep.Events, &rep.CreatedAt)
	return rep, err
}
