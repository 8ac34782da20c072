package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_alert_system/internal/duplicate"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
)

const incidentColumns = `
	id,
	type,
	title,
	description,
	severity,
	status,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	address,
	reported_by,
	COALESCE(assigned_to, '') AS assigned_to,
	media_urls,
	upvotes,
	downvotes,
	voted_by,
	duplicate_of,
	verification_rewarded,
	upvoted_by,
	resolved_count,
	version,
	reported_at,
	updated_at
`

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	if incident.ReportedAt.IsZero() {
		incident.ReportedAt = time.Now().UTC()
	}
	if incident.MediaURLs == nil {
		incident.MediaURLs = []string{}
	}
	if incident.VotedBy == nil {
		incident.VotedBy = []string{}
	}
	if incident.UpvotedBy == nil {
		incident.UpvotedBy = []string{}
	}

	query := `
		INSERT INTO incidents (
			id, type, title, description, severity, status, location, address,
			reported_by, assigned_to, media_urls, upvotes, downvotes, voted_by,
			duplicate_of, verification_rewarded, upvoted_by, resolved_count, version, reported_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, ST_SetSRID(ST_MakePoint($7, $8), 4326), $9,
			$10, NULLIF($11, ''), $12, $13, $14, $15,
			$16, $17, $18, $19, 1, $20
		)
		RETURNING version, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.ID,
		incident.Type,
		incident.Title,
		incident.Description,
		incident.Severity,
		incident.Status,
		incident.Location.Lng,
		incident.Location.Lat,
		incident.Location.Address,
		incident.ReportedBy,
		incident.AssignedTo,
		incident.MediaURLs,
		incident.Upvotes,
		incident.Downvotes,
		incident.VotedBy,
		incident.DuplicateOf,
		incident.VerificationRewarded,
		incident.UpvotedBy,
		incident.ResolvedCount,
		incident.ReportedAt,
	).Scan(&incident.Version, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// CompareAndSwap записывает next, только если версия в бд равна expectedVersion.
// Голоса, статус и флаг награды меняются одним UPDATE.
func (r *IncidentRepository) CompareAndSwap(ctx context.Context, next *models.Incident, expectedVersion int64) error {
	query := `
		UPDATE incidents SET
			type = $3,
			title = $4,
			description = $5,
			severity = $6,
			status = $7,
			location = ST_SetSRID(ST_MakePoint($8, $9), 4326),
			address = $10,
			assigned_to = NULLIF($11, ''),
			media_urls = $12,
			upvotes = $13,
			downvotes = $14,
			voted_by = $15,
			duplicate_of = $16,
			verification_rewarded = $17,
			upvoted_by = $18,
			resolved_count = $19,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		next.ID,
		expectedVersion,
		next.Type,
		next.Title,
		next.Description,
		next.Severity,
		next.Status,
		next.Location.Lng,
		next.Location.Lat,
		next.Location.Address,
		next.AssignedTo,
		next.MediaURLs,
		next.Upvotes,
		next.Downvotes,
		next.VotedBy,
		next.DuplicateOf,
		next.VerificationRewarded,
		next.UpvotedBy,
		next.ResolvedCount,
	).Scan(&next.Version, &next.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	// Ни одна строка не обновлена: инцидента нет или версия уже другая
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1);`, next.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check incident existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("incident with id %s: %w", next.ID, models.ErrNotFound)
	}
	return fmt.Errorf("incident %s changed since version %d: %w", next.ID, expectedVersion, models.ErrConcurrencyConflict)
}

// List возвращает страницу инцидентов без помеченных дубликатов, новые изменения первыми
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (filter.Page - 1) * filter.PageSize

	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			duplicate_of IS NULL
			AND ($1::text = '' OR status = $1::text)
			AND ($2::text = '' OR severity = $2::text)
		ORDER BY updated_at DESC
		LIMIT $3 OFFSET $4;
	`
	return r.queryIncidents(ctx, "List", query, string(filter.Status), string(filter.Severity), filter.PageSize, offset)
}

// FindDuplicateCandidates - выборка кандидатов в дубликаты: тот же тип, не решен, свежий, в квадрате
func (r *IncidentRepository) FindDuplicateCandidates(ctx context.Context, q duplicate.CandidateQuery) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			id <> $1
			AND type = $2
			AND status <> 'resolved'
			AND reported_at >= $3
			AND location::geometry && ST_MakeEnvelope($4, $5, $6, $7, 4326)
		ORDER BY reported_at, id;
	`
	return r.queryIncidents(ctx, "FindDuplicateCandidates", query,
		q.ExcludeID, q.Type, q.Since, q.MinLng, q.MinLat, q.MaxLng, q.MaxLat)
}

// FindRecentUnresolved возвращает нерешенные инциденты начиная с since в порядке создания
func (r *IncidentRepository) FindRecentUnresolved(ctx context.Context, since time.Time) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE status <> 'resolved' AND reported_at >= $1
		ORDER BY reported_at, id;
	`
	return r.queryIncidents(ctx, "FindRecentUnresolved", query, since)
}

// FindInBox возвращает инциденты в квадрате ±deltaDeg вокруг center начиная с since
func (r *IncidentRepository) FindInBox(ctx context.Context, center models.Location, deltaDeg float64, since time.Time) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			reported_at >= $1
			AND location::geometry && ST_MakeEnvelope($2, $3, $4, $5, 4326)
		ORDER BY reported_at, id;
	`
	return r.queryIncidents(ctx, "FindInBox", query, since,
		center.Lng-deltaDeg, center.Lat-deltaDeg, center.Lng+deltaDeg, center.Lat+deltaDeg)
}

// ListUpdatedSince возвращает инциденты, измененные начиная с since
func (r *IncidentRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE updated_at >= $1
		ORDER BY reported_at, id;
	`
	return r.queryIncidents(ctx, "ListUpdatedSince", query, since)
}

func (r *IncidentRepository) queryIncidents(ctx context.Context, op, query string, args ...any) ([]*models.Incident, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents in %s: %w", op, err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in %s: %w", op, err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in %s: %w", op, err)
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Type,
		&incident.Title,
		&incident.Description,
		&incident.Severity,
		&incident.Status,
		&incident.Location.Lat,
		&incident.Location.Lng,
		&incident.Location.Address,
		&incident.ReportedBy,
		&incident.AssignedTo,
		&incident.MediaURLs,
		&incident.Upvotes,
		&incident.Downvotes,
		&incident.VotedBy,
		&incident.DuplicateOf,
		&incident.VerificationRewarded,
		&incident.UpvotedBy,
		&incident.ResolvedCount,
		&incident.Version,
		&incident.ReportedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}
