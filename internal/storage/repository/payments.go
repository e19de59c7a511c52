package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mercadolocal/billing-engine/internal/models"
)

// ErrPaymentNotFound возвращается, когда платёж отсутствует в базе.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrPaymentAlreadyReviewed возвращается при попытке повторной проверки
// платежа: проверенные платежи неизменяемы.
var ErrPaymentAlreadyReviewed = errors.New("payment already reviewed")

const paymentColumns = `uid, owner_uid, amount, period_month, status, proof_url,
			      owner_note, admin_note, reviewed_by, reviewed_at, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var status string
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	if err := row.Scan(&p.UID, &p.OwnerUID, &p.Amount, &p.PeriodMonth, &status,
		&p.ProofURL, &p.OwnerNote, &p.AdminNote, &reviewedBy, &reviewedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatus(status)
	if reviewedBy.Valid {
		p.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		p.ReviewedAt = &reviewedAt.Time
	}
	return p, nil
}

// CreatePayment сохраняет новый платёж в статусе PENDING и возвращает
// его UID.
func (s *Storage) CreatePayment(ctx context.Context, ownerUID string, req models.DummyPayment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	uid := uuid.New().String()
	query := `INSERT INTO payments (uid, owner_uid, amount, period_month, status,
			      proof_url, owner_note, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	if _, err := s.DB.ExecContext(ctx, query,
		uid, ownerUID, req.Amount, req.PeriodMonth, string(models.PaymentPending),
		req.ProofURL, req.OwnerNote); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// GetPayment возвращает платёж по его UID.
func (s *Storage) GetPayment(ctx context.Context, paymentUID string) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE uid = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, paymentUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPayments возвращает платежи: все, по владельцу и/или по статусу.
// Пустой ownerUID и пустой status означают отсутствие фильтра.
func (s *Storage) ListPayments(ctx context.Context, ownerUID string, status string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE ($1 = '' OR owner_uid::text = $1)
			    AND ($2 = '' OR status = $2)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApprovePayment в одной транзакции подтверждает платёж и продлевает
// подписку владельца на календарный месяц. Точка отсчёта продления —
// более поздняя из (текущая subscription_paid_until, now): просроченный
// владелец получает месяц от момента одобрения, оплативший заранее —
// от конца уже оплаченного периода.
//
// Второй администратор, одобряющий тот же платёж, увидит
// ErrPaymentAlreadyReviewed: условие status = 'PENDING' в UPDATE
// закрывает единственную гонку этого модуля.
func (s *Storage) ApprovePayment(ctx context.Context, paymentUID, reviewerUID, adminNote string, now time.Time) (string, error) {
	const op = "storage.ApprovePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var ownerUID string
	query := `UPDATE payments
			  SET status = $1, reviewed_by = $2, reviewed_at = $3, admin_note = $4
			  WHERE uid = $5 AND status = $6
			  RETURNING owner_uid`
	err = tx.QueryRowContext(ctx, query,
		string(models.PaymentApproved), reviewerUID, now, adminNote,
		paymentUID, string(models.PaymentPending)).Scan(&ownerUID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, s.classifyReviewConflict(ctx, paymentUID))
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE users
			  SET subscription_paid_until = GREATEST(COALESCE(subscription_paid_until, $1), $1) + INTERVAL '1 month',
			      subscription_status = $2
			  WHERE uid = $3`
	if _, err = tx.ExecContext(ctx, query, now, string(models.StatusActive), ownerUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ownerUID, nil
}

// RejectPayment помечает платёж отклонённым, не трогая подписку.
func (s *Storage) RejectPayment(ctx context.Context, paymentUID, reviewerUID, adminNote string, now time.Time) error {
	const op = "storage.RejectPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1, reviewed_by = $2, reviewed_at = $3, admin_note = $4
			  WHERE uid = $5 AND status = $6`
	res, err := s.DB.ExecContext(ctx, query,
		string(models.PaymentRejected), reviewerUID, now, adminNote,
		paymentUID, string(models.PaymentPending))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, s.classifyReviewConflict(ctx, paymentUID))
	}
	return nil
}

// classifyReviewConflict различает отсутствующий платёж и уже
// проверенный, когда условный UPDATE не затронул строк.
func (s *Storage) classifyReviewConflict(ctx context.Context, paymentUID string) error {
	var status string
	err := s.DB.QueryRowContext(ctx, `SELECT status FROM payments WHERE uid = $1`, paymentUID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return err
	}
	return ErrPaymentAlreadyReviewed
}
