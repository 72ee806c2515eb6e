package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	"github.com/m04kA/SMC-CarBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"car_id",
	"service_id",
	"start_at",
	"duration_minutes",
	"status",
	"note",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// end_at вычисляется здесь и нужен только БД: exclusion constraint и префильтр запросов
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"car_id",
			"service_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"status",
			"note",
		).
		Values(
			booking.UserID,
			booking.CarID,
			booking.ServiceID,
			booking.StartAt,
			booking.EndAt(),
			booking.DurationMinutes,
			booking.Status,
			booking.Note,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, translateExecError("Create - execute insert", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByIDAndUser получает бронирование по ID, только если оно принадлежит пользователю
func (r *Repository) GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByIDAndUser", squirrel.Eq{"id": id, "user_id": userID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	// Внутри транзакции блокируем строку до конца изменения
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя, новые сначала
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("start_at DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByCar получает активные бронирования автомобиля, которые могут пересекаться с интервалом
// Префильтр start_at < to AND end_at > from не меняет результат: точная проверка выполняется в коде
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetActiveByCar(ctx context.Context, carID int64, window domain.Interval, excludeBookingID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"car_id": carID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.Lt{"start_at": window.End}).
		Where(squirrel.Gt{"end_at": window.Start}).
		OrderBy("start_at ASC")

	if excludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeBookingID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCar - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateExecError("GetActiveByCar - execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveInWindow получает активные бронирования, пересекающиеся с окном
// Если carID == nil, учитываются все автомобили
func (r *Repository) GetActiveInWindow(ctx context.Context, window domain.Interval, carID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.Lt{"start_at": window.End}).
		Where(squirrel.Gt{"end_at": window.Start}).
		OrderBy("start_at ASC")

	if carID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"car_id": *carID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return translateExecError("UpdateStatus - execute update", err)
	}

	return checkAffected("UpdateStatus", result)
}

// UpdateSchedule переносит бронирование на новое время
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, startAt time.Time, durationMinutes int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	interval := domain.NewInterval(startAt, durationMinutes)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_at", interval.Start).
		Set("end_at", interval.End).
		Set("duration_minutes", durationMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return translateExecError("UpdateSchedule - execute update", err)
	}

	return checkAffected("UpdateSchedule", result)
}

func checkAffected(op string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var note sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CarID,
		&booking.ServiceID,
		&booking.StartAt,
		&booking.DurationMinutes,
		&booking.Status,
		&note,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if note.Valid {
		booking.Note = &note.String
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
