package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_alert_system/internal/models"
)

// RewardRepository - журнал наград в PostgreSQL.
// Запись в reward_grants и изменение пользователя идут в одной транзакции.
type RewardRepository struct {
	db *pgxpool.Pool
}

func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: db}
}

// Grant применяет начисление, если ключ еще не встречался. Возвращает false для повтора.
func (r *RewardRepository) Grant(ctx context.Context, g models.RewardGrant) (applied bool, err error) {
	if g.Key == "" || g.UserID == "" {
		return false, fmt.Errorf("reward grant requires key and user: %w", models.ErrValidation)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to begin reward transaction: %w", err)
	}
	defer func() {
		if err != nil || !applied {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `INSERT INTO user_rewards (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING;`, g.UserID); err != nil {
		return false, fmt.Errorf("failed to ensure user rewards row: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO reward_grants (grant_key, user_id, incident_id, kind, points)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (grant_key) DO NOTHING;
	`, g.Key, g.UserID, g.IncidentID, g.Kind, g.Points)
	if err != nil {
		return false, fmt.Errorf("failed to record reward grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	u, err := scanUserRewards(tx.QueryRow(ctx, userRewardsSelect+` WHERE user_id = $1 FOR UPDATE;`, g.UserID))
	if err != nil {
		return false, fmt.Errorf("failed to lock user rewards: %w", err)
	}
	u.Apply(g, time.Now().UTC())

	_, err = tx.Exec(ctx, `
		UPDATE user_rewards SET
			points = $2,
			badges = $3,
			total_reports = $4,
			verified_reports = $5,
			resolved_reports = $6,
			total_upvotes = $7,
			last_report_at = $8,
			updated_at = $9
		WHERE user_id = $1;
	`, u.UserID, u.Points, u.Badges, u.Stats.TotalReports, u.Stats.VerifiedReports,
		u.Stats.ResolvedReports, u.Stats.TotalUpvotes, u.Stats.LastReportAt, u.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to update user rewards: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit reward grant: %w", err)
	}
	return true, nil
}

// GetRewards возвращает баллы, значки и статистику пользователя
func (r *RewardRepository) GetRewards(ctx context.Context, userID string) (*models.UserRewards, error) {
	u, err := scanUserRewards(r.db.QueryRow(ctx, userRewardsSelect+` WHERE user_id = $1;`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("rewards for user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user rewards: %w", err)
	}
	return u, nil
}

// TopReporters возвращает лучших авторов: по баллам, затем по числу подтвержденных сообщений
func (r *RewardRepository) TopReporters(ctx context.Context, limit int) ([]*models.UserRewards, error) {
	rows, err := r.db.Query(ctx, userRewardsSelect+`
		ORDER BY points DESC, verified_reports DESC, user_id
		LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top reporters: %w", err)
	}
	defer rows.Close()

	top := make([]*models.UserRewards, 0, limit)
	for rows.Next() {
		u, err := scanUserRewards(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top reporter: %w", err)
		}
		top = append(top, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error top reporters iteration: %w", err)
	}
	return top, nil
}

const userRewardsSelect = `
	SELECT
		user_id,
		points,
		badges,
		total_reports,
		verified_reports,
		resolved_reports,
		total_upvotes,
		last_report_at,
		updated_at
	FROM user_rewards`

func scanUserRewards(row pgx.Row) (*models.UserRewards, error) {
	u := &models.UserRewards{}
	err := row.Scan(
		&u.UserID,
		&u.Points,
		&u.Badges,
		&u.Stats.TotalReports,
		&u.Stats.VerifiedReports,
		&u.Stats.ResolvedReports,
		&u.Stats.TotalUpvotes,
		&u.Stats.LastReportAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}
	return u, nil
}
