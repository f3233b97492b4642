package holiday

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/smartappt/booking-service/internal/domain"
	"github.com/smartappt/booking-service/pkg/dbmetrics"
	"github.com/smartappt/booking-service/pkg/psqlbuilder"
)

const uniqueViolationCode = "23505"

var holidayColumns = []string{
	"id",
	"business_id",
	"date",
	"reason",
}

// Repository репозиторий для работы с выходными днями бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория выходных дней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет выходной день
func (r *Repository) Create(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("business_id", "date", "reason").
		Values(holiday.BusinessID, holiday.Date, holiday.Reason).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&holiday.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, ErrHolidayExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return holiday, nil
}

// GetByID получает выходной день по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holidayColumns...).
		From("holidays").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var holiday domain.Holiday
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&holiday.ID,
		&holiday.BusinessID,
		&holiday.Date,
		&holiday.Reason,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHolidayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan holiday: %v", ErrScanRow, err)
	}

	holiday.Date = holiday.Date.UTC()

	return &holiday, nil
}

// GetByBusinessAndDate получает выходной бизнеса на конкретную дату
func (r *Repository) GetByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) (*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holidayColumns...).
		From("holidays").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"date": date.Truncate(24 * time.Hour)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var holiday domain.Holiday
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&holiday.ID,
		&holiday.BusinessID,
		&holiday.Date,
		&holiday.Reason,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHolidayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDate - scan holiday: %v", ErrScanRow, err)
	}

	holiday.Date = holiday.Date.UTC()

	return &holiday, nil
}

// GetAllByMonth получает выходные бизнеса за период [from, to)
func (r *Repository) GetAllByMonth(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holidayColumns...).
		From("holidays").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByMonth - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByMonth - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]*domain.Holiday, 0)
	for rows.Next() {
		var holiday domain.Holiday
		err := rows.Scan(
			&holiday.ID,
			&holiday.BusinessID,
			&holiday.Date,
			&holiday.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByMonth - scan row: %v", ErrScanRow, err)
		}
		holiday.Date = holiday.Date.UTC()
		holidays = append(holidays, &holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByMonth - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}

// Delete удаляет выходной день
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHolidayNotFound
	}

	return nil
}
