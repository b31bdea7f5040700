package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/ranking"
)

const candidateColumns = `id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(position, ''),
	lat, lon, COALESCE(postal_code, ''), COALESCE(city, ''), COALESCE(canton, ''),
	COALESCE(quality, '{}'), COALESCE(quality_note, ''), COALESCE(experience, ''),
	COALESCE(driving_license, ''), COALESCE(status, ''), COALESCE(notes, ''),
	COALESCE(document_url, ''), COALESCE(unit_id, ''), COALESCE(claimed_by, '')`

const (
	selectCandidates = `SELECT ` + candidateColumns + `
FROM candidates
WHERE ($1 = '' OR unit_id = $1)
ORDER BY id`

	selectCandidate = `SELECT ` + candidateColumns + `
FROM candidates
WHERE id = $1`

	selectTarget = `SELECT id, COALESCE(kind, ''), COALESCE(role, ''), COALESCE(company, ''),
	COALESCE(description, ''), lat, lon, COALESCE(postal_code, ''), COALESCE(city, ''),
	COALESCE(canton, ''), COALESCE(radius_km, 0), COALESCE(min_quality, ''),
	COALESCE(min_experience, ''), COALESCE(driving_license, ''), COALESCE(urgent, false),
	COALESCE(unit_id, '')
FROM match_targets
WHERE id = $1`
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads candidates and match targets from PostgreSQL.
type Postgres struct {
	db   querier
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool and verifies it with a ping.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Postgres{db: pool, pool: pool}, nil
}

func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) Candidates(ctx context.Context, scope ranking.Scope) ([]*candidate.Profile, error) {
	rows, err := p.db.Query(ctx, selectCandidates, strings.TrimSpace(scope.UnitID))
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []*candidate.Profile
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

func (p *Postgres) Candidate(ctx context.Context, id string) (*candidate.Profile, error) {
	c, err := scanCandidate(p.db.QueryRow(ctx, selectCandidate, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &ranking.NotFoundError{Kind: "candidate", ID: id}
	}
	return c, err
}

func (p *Postgres) Target(ctx context.Context, id string) (*candidate.Target, error) {
	var (
		t                     candidate.Target
		kind, minQ, minE, lic string
	)
	err := p.db.QueryRow(ctx, selectTarget, id).Scan(
		&t.ID, &kind, &t.Role, &t.Company,
		&t.Description, &t.Location.Lat, &t.Location.Lon, &t.Location.PostalCode, &t.Location.City,
		&t.Location.Canton, &t.RadiusKm, &minQ,
		&minE, &lic, &t.Urgent,
		&t.UnitID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &ranking.NotFoundError{Kind: "target", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query target %s: %w", id, err)
	}

	t.Kind = candidate.TargetKind(kind)
	t.MinQuality = candidate.Quality(minQ)
	t.MinExperience = candidate.Experience(minE)
	t.DrivingLicense = candidate.DrivingLicense(lic)
	return &t, nil
}

func scanCandidate(row pgx.Row) (*candidate.Profile, error) {
	var (
		c                         candidate.Profile
		quality                   []string
		experience, license, stat string
	)
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Position,
		&c.Location.Lat, &c.Location.Lon, &c.Location.PostalCode, &c.Location.City, &c.Location.Canton,
		&quality, &c.QualityNote, &experience,
		&license, &stat, &c.Notes,
		&c.DocumentURL, &c.UnitID, &c.ClaimedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}

	c.Quality = qualities(quality)
	c.Experience = candidate.Experience(experience)
	c.DrivingLicense = candidate.DrivingLicense(license)
	c.Status = candidate.Status(stat)
	return &c, nil
}

func qualities(raw []string) []candidate.Quality {
	if len(raw) == 0 {
		return nil
	}
	out := make([]candidate.Quality, 0, len(raw))
	for _, q := range raw {
		if n := candidate.Quality(q).Normalized(); n != "" {
			out = append(out, n)
		}
	}
	return out
}
