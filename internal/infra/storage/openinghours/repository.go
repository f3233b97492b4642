package openinghours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/smartappt/booking-service/internal/domain"
	"github.com/smartappt/booking-service/pkg/dbmetrics"
	"github.com/smartappt/booking-service/pkg/psqlbuilder"
)

const uniqueViolationCode = "23505"

var hoursColumns = []string{
	"id",
	"business_id",
	"day_of_week",
	"open_time",
	"close_time",
}

// Repository репозиторий для работы с часами работы бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория часов работы
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись часов работы для дня недели
// Вторая запись для той же пары (бизнес, день) отклоняется уникальным индексом
func (r *Repository) Create(ctx context.Context, hours *domain.OpeningHours) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("opening_hours").
		Columns("business_id", "day_of_week", "open_time", "close_time").
		Values(hours.BusinessID, hours.DayOfWeek, hours.OpenTime, hours.CloseTime).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&hours.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, ErrHoursExist
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return hours, nil
}

// GetByBusinessAndDay получает часы работы бизнеса для дня недели (Monday=1 .. Sunday=7)
func (r *Repository) GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From("opening_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDay - build select query: %v", ErrBuildQuery, err)
	}

	var hours domain.OpeningHours
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.ID,
		&hours.BusinessID,
		&hours.DayOfWeek,
		&hours.OpenTime,
		&hours.CloseTime,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDay - scan hours: %v", ErrScanRow, err)
	}

	return &hours, nil
}

// GetAllByBusiness получает недельное расписание бизнеса
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From("opening_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := make([]*domain.OpeningHours, 0)
	for rows.Next() {
		var hours domain.OpeningHours
		err := rows.Scan(
			&hours.ID,
			&hours.BusinessID,
			&hours.DayOfWeek,
			&hours.OpenTime,
			&hours.CloseTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}
		schedule = append(schedule, &hours)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// Update обновляет часы работы для дня недели
func (r *Repository) Update(ctx context.Context, hours *domain.OpeningHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("opening_hours").
		Set("open_time", hours.OpenTime).
		Set("close_time", hours.CloseTime).
		Where(squirrel.Eq{"business_id": hours.BusinessID}).
		Where(squirrel.Eq{"day_of_week": hours.DayOfWeek}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHoursNotFound
	}

	return nil
}

// DeleteByBusinessAndDay удаляет часы работы для дня недели
func (r *Repository) DeleteByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("opening_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByBusinessAndDay - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByBusinessAndDay - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBusinessAndDay - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHoursNotFound
	}

	return nil
}
