package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) points.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements points.SettingsRepository. The configuration is a single
// row; its criteria live in a child table.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (points.Settings, error) {
	var s points.Settings

	query := `
		SELECT token, chat_id, COALESCE(thread_id, ''), holiday_calendar,
			   avg_working_hours, avg_word_count, rank,
			   daily_enabled, weekly_enabled, monthly_enabled, disabled
		FROM points_settings
		WHERE id = 1
	`
	err := r.db.QueryRow(ctx, query).Scan(
		&s.Token,
		&s.ChatID,
		&s.ThreadID,
		&s.HolidayCalendar,
		&s.AvgWorkingHours,
		&s.AvgWordCount,
		&s.Rank,
		&s.DailyEnabled,
		&s.WeeklyEnabled,
		&s.MonthlyEnabled,
		&s.Disabled,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return points.Settings{}, points.ErrSettingsNotFound
	}
	if err != nil {
		return points.Settings{}, fmt.Errorf("query points settings: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT kind, weight
		FROM points_criteria
		ORDER BY kind ASC
	`)
	if err != nil {
		return points.Settings{}, fmt.Errorf("query points criteria: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c points.Criterion
		if err := rows.Scan(&c.Kind, &c.Weight); err != nil {
			return points.Settings{}, fmt.Errorf("scan criterion: %w", err)
		}
		s.Criteria = append(s.Criteria, c)
	}
	return s, rows.Err()
}

// Save implements points.SettingsRepository. The criteria weight invariant
// is re-checked here so a bad configuration can never be persisted, no
// matter which caller skipped validation.
func (r *settingsRepositoryImpl) Save(ctx context.Context, s points.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO points_settings (
				id, token, chat_id, thread_id, holiday_calendar,
				avg_working_hours, avg_word_count, rank,
				daily_enabled, weekly_enabled, monthly_enabled, disabled,
				updated_at
			) VALUES (
				1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
			)
			ON CONFLICT (id) DO UPDATE SET
				token = EXCLUDED.token,
				chat_id = EXCLUDED.chat_id,
				thread_id = EXCLUDED.thread_id,
				holiday_calendar = EXCLUDED.holiday_calendar,
				avg_working_hours = EXCLUDED.avg_working_hours,
				avg_word_count = EXCLUDED.avg_word_count,
				rank = EXCLUDED.rank,
				daily_enabled = EXCLUDED.daily_enabled,
				weekly_enabled = EXCLUDED.weekly_enabled,
				monthly_enabled = EXCLUDED.monthly_enabled,
				disabled = EXCLUDED.disabled,
				updated_at = NOW()
		`,
			s.Token, s.ChatID, s.ThreadID, s.HolidayCalendar,
			s.AvgWorkingHours, s.AvgWordCount, s.Rank,
			s.DailyEnabled, s.WeeklyEnabled, s.MonthlyEnabled, s.Disabled,
		)
		if err != nil {
			return fmt.Errorf("upsert points settings: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM points_criteria`); err != nil {
			return fmt.Errorf("clear points criteria: %w", err)
		}
		for _, c := range s.Criteria {
			if _, err := tx.Exec(ctx, `
				INSERT INTO points_criteria (kind, weight) VALUES ($1, $2)
			`, string(c.Kind), c.Weight); err != nil {
				return fmt.Errorf("insert criterion %s: %w", c.Kind, err)
			}
		}
		return nil
	})
}
