package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mercadolocal/billing-engine/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в базе.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `uid, email, phone, full_name, role, is_active,
			      became_owner_at, subscription_paid_until, subscription_status, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var phone, fullName sql.NullString
	var becameOwnerAt, paidUntil sql.NullTime
	var role string
	if err := row.Scan(&u.UID, &u.Email, &phone, &fullName, &role, &u.IsActive,
		&becameOwnerAt, &paidUntil, &u.SubscriptionStatus, &u.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	if phone.Valid {
		u.Phone = &phone.String
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if becameOwnerAt.Valid {
		u.BecameOwnerAt = &becameOwnerAt.Time
	}
	if paidUntil.Valid {
		u.SubscriptionPaidUntil = &paidUntil.Time
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindOwners возвращает владельцев бизнесов; при activeOnly только
// не отключённые учётные записи. Владельцы без became_owner_at тоже
// попадают в выборку: решение пропустить их с записью в лог принимает
// рассылка, а не хранилище.
func (s *Storage) FindOwners(ctx context.Context, activeOnly bool) ([]*models.User, error) {
	const op = "storage.FindOwners"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE role = $1 AND ($2 = false OR is_active = true)
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, string(models.RoleOwner), activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RefreshSubscriptionStatus обновляет кэшированную проекцию статуса.
// Проекция не является источником истины, поэтому гонки здесь не важны.
func (s *Storage) RefreshSubscriptionStatus(ctx context.Context, userUID string, status models.SubscriptionStatus) error {
	const op = "storage.RefreshSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_status = $1
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, string(status), userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
