package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
)

// ActivityRepository - журнал действий в таблице activity_log
type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) service.ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append добавляет запись в журнал
func (r *ActivityRepository) Append(ctx context.Context, a *models.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO activity_log (id, user_id, action, incident_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := r.db.Exec(ctx, query, a.ID, a.UserID, a.Action, a.IncidentID, a.Details, a.Timestamp); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// List возвращает страницу журнала, новые записи первыми
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]*models.Activity, error) {
	offset := (filter.Page - 1) * filter.PageSize

	var incidentID *uuid.UUID
	if filter.IncidentID != uuid.Nil {
		incidentID = &filter.IncidentID
	}

	query := `
		SELECT id, user_id, action, incident_id, details, created_at
		FROM activity_log
		WHERE
			($1::text = '' OR user_id = $1::text)
			AND ($2::uuid IS NULL OR incident_id = $2::uuid)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.db.Query(ctx, query, filter.UserID, incidentID, filter.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Activity, 0)
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.IncidentID, &a.Details, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error activity iteration: %w", err)
	}
	return items, nil
}
