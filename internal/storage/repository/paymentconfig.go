package repository

import (
	"context"
	"fmt"

	"github.com/mercadolocal/billing-engine/internal/models"
)

// Значения по умолчанию для конфигурации оплаты. Создаются при первом
// чтении и дальше правятся администратором.
const (
	defaultMonthlyFee    = 50000
	defaultBankName      = "Banco de Crédito"
	defaultBankAccount   = "000-0000000-0-00"
	defaultAccountHolder = "MercadoLocal SAC"
	defaultSupportEmail  = "soporte@mercadolocal.pe"
	defaultSupportPhone  = "+51 900 000 000"
)

// GetOrCreateConfig возвращает единственную запись конфигурации оплаты,
// создавая её со значениями по умолчанию, если записи ещё нет.
// Глобального изменяемого синглтона в памяти нет: конфигурация всегда
// читается явно через хранилище.
func (s *Storage) GetOrCreateConfig(ctx context.Context) (*models.PaymentConfig, error) {
	const op = "storage.GetOrCreateConfig"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_config (id, monthly_fee, bank_name, bank_account,
			      account_holder, support_email, support_phone)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, models.PaymentConfigID,
		defaultMonthlyFee, defaultBankName, defaultBankAccount,
		defaultAccountHolder, defaultSupportEmail, defaultSupportPhone); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg := &models.PaymentConfig{}
	query = `SELECT monthly_fee, bank_name, bank_account, account_holder,
			      support_email, support_phone
			  FROM payment_config
			  WHERE id = $1`
	if err := s.DB.QueryRowContext(ctx, query, models.PaymentConfigID).Scan(
		&cfg.MonthlyFee, &cfg.BankName, &cfg.BankAccount, &cfg.AccountHolder,
		&cfg.SupportEmail, &cfg.SupportPhone); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// UpdateConfig сохраняет реквизиты оплаты, отредактированные
// администратором.
func (s *Storage) UpdateConfig(ctx context.Context, cfg models.PaymentConfig) error {
	const op = "storage.UpdateConfig"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_config
			  SET monthly_fee = $1, bank_name = $2, bank_account = $3,
			      account_holder = $4, support_email = $5, support_phone = $6
			  WHERE id = $7`
	if _, err := s.DB.ExecContext(ctx, query, cfg.MonthlyFee, cfg.BankName,
		cfg.BankAccount, cfg.AccountHolder, cfg.SupportEmail, cfg.SupportPhone,
		models.PaymentConfigID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
