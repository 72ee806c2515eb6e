package car

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	"github.com/m04kA/SMC-CarBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarBookingService/pkg/psqlbuilder"
)

// Repository репозиторий автомобилей (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория автомобилей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает автомобиль по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"category_id",
		"name",
		"license_plate",
		"vin",
		"model_year",
	).
		From("cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		car          domain.Car
		categoryID   sql.NullInt64
		licensePlate sql.NullString
		vin          sql.NullString
		modelYear    sql.NullInt32
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&car.ID,
		&car.OwnerID,
		&categoryID,
		&car.Name,
		&licensePlate,
		&vin,
		&modelYear,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan car: %v", ErrScanRow, err)
	}

	if categoryID.Valid {
		car.CategoryID = &categoryID.Int64
	}
	if licensePlate.Valid {
		car.LicensePlate = &licensePlate.String
	}
	if vin.Valid {
		car.VIN = &vin.String
	}
	if modelYear.Valid {
		year := int(modelYear.Int32)
		car.ModelYear = &year
	}

	return &car, nil
}
