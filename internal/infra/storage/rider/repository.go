package rider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/dbmetrics"
	"github.com/m04kA/BTR-BookingService/pkg/psqlbuilder"
)

// Repository профили райдеров
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает профиль райдера
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Rider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "phone", "email", "rank", "created_at", "updated_at").
		From("riders").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var rider domain.Rider
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Phone,
		&rider.Email,
		&rider.Rank,
		&rider.CreatedAt,
		&rider.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRiderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rider: %v", ErrScanRow, err)
	}

	return &rider, nil
}

// Upsert создает профиль или обновляет имя, телефон и email. Ранг не меняется.
func (r *Repository) Upsert(ctx context.Context, rider *domain.Rider) (*domain.Rider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rank := rider.Rank
	if rank == "" {
		rank = domain.RankNewbie
	}

	query, args, err := psqlbuilder.Insert("riders").
		Columns("id", "name", "phone", "email", "rank").
		Values(rider.ID, rider.Name, rider.Phone, rider.Email, string(rank)).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone, email = EXCLUDED.email, updated_at = NOW() " +
			"RETURNING rank, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rider.Rank, &rider.CreatedAt, &rider.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	return rider, nil
}

// UpdateRank сохраняет пересчитанный ранг
func (r *Repository) UpdateRank(ctx context.Context, id int64, rank domain.RiderRank) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("riders").
		Set("rank", string(rank)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateRank - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRank - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRank - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRiderNotFound
	}

	return nil
}
