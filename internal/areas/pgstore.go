package areas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"wavefront/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx, so the
// repository works inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore is the Postgres-backed event and region repository. Region rings
// are stored as JSONB coordinate arrays; event wave and bbox columns as
// JSONB records.
type PGStore struct {
	db DBTX
}

// NewPGStore creates a repository backed by the given connection.
func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

const eventColumns = `e.id, e.name, e.wave_start, e.region_ids, e.bbox, e.wave`

func scanEvent(row pgx.Row) (*types.EventDefinition, error) {
	var (
		ev      types.EventDefinition
		rawBBox []byte
		rawWave []byte
	)
	err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.WaveStart,
		&ev.Area.RegionIDs,
		&rawBBox,
		&rawWave,
	)
	if err != nil {
		return nil, err
	}
	if len(rawBBox) > 0 {
		var bb types.BBoxOverride
		if err := json.Unmarshal(rawBBox, &bb); err != nil {
			return nil, fmt.Errorf("decoding bbox for event %s: %w", ev.ID, err)
		}
		ev.Area.BBox = &bb
	}
	if err := json.Unmarshal(rawWave, &ev.Wave); err != nil {
		return nil, fmt.Errorf("decoding wave for event %s: %w", ev.ID, err)
	}
	ev.ValidationErrors = types.ValidateEventDefinition(&ev)
	return &ev, nil
}

// Events returns all events ordered by wave start.
func (s *PGStore) Events(ctx context.Context) ([]types.EventDefinition, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM events e ORDER BY e.wave_start, e.id`, eventColumns))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, "listing events", err)
	}
	defer rows.Close()

	var out []types.EventDefinition
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalStore, "scanning event", err)
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, "listing events", err)
	}
	return out, nil
}

// Event returns one event by id.
func (s *PGStore) Event(ctx context.Context, id string) (*types.EventDefinition, error) {
	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM events e WHERE e.id = $1`, eventColumns), id)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewAppError(types.ErrCodeNotFoundEvent, fmt.Sprintf("event %s not found", id), err)
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, "loading event", err)
	}
	return ev, nil
}

// Regions returns the regions for the given ids. Every requested id must
// exist.
func (s *PGStore) Regions(ctx context.Context, ids []string) ([]Region, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.name, r.rings FROM regions r WHERE r.id = ANY($1)`, ids)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, "loading regions", err)
	}
	defer rows.Close()

	byID := make(map[string]Region, len(ids))
	for rows.Next() {
		var (
			r        Region
			rawRings []byte
		)
		if err := rows.Scan(&r.ID, &r.Name, &rawRings); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalStore, "scanning region", err)
		}
		if err := json.Unmarshal(rawRings, &r.Rings); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalStore, fmt.Sprintf("decoding rings for region %s", r.ID), err)
		}
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, "loading regions", err)
	}

	out := make([]Region, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, types.NewAppError(types.ErrCodeNotFoundArea, fmt.Sprintf("region %s not found", id), nil)
		}
		out = append(out, r)
	}
	return out, nil
}
