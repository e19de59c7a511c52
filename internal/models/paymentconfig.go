package models

// PaymentConfigID — фиксированный идентификатор единственной записи
// конфигурации оплаты.
const PaymentConfigID = 1

// PaymentConfig хранит реквизиты ручной оплаты подписки.
// Запись одна, создаётся с значениями по умолчанию при первом чтении.
type PaymentConfig struct {
	MonthlyFee    int    `json:"monthly_fee"`    // Ежемесячная плата в наименьших единицах валюты
	BankName      string `json:"bank_name"`      // Банк получателя
	BankAccount   string `json:"bank_account"`   // Номер счёта
	AccountHolder string `json:"account_holder"` // Держатель счёта
	SupportEmail  string `json:"support_email"`  // Почта поддержки
	SupportPhone  string `json:"support_phone"`  // Телефон поддержки
}

// DummyPaymentConfig принимает реквизиты оплаты из JSON-запроса
// администратора. Все поля обязательны: частичного обновления нет,
// запись перезаписывается целиком.
type DummyPaymentConfig struct {
	MonthlyFee    int    `json:"monthly_fee" validate:"required,gt=0"`    // Плата (>0)
	BankName      string `json:"bank_name" validate:"required"`           // Банк получателя
	BankAccount   string `json:"bank_account" validate:"required"`        // Номер счёта
	AccountHolder string `json:"account_holder" validate:"required"`      // Держатель счёта
	SupportEmail  string `json:"support_email" validate:"required,email"` // Почта поддержки
	SupportPhone  string `json:"support_phone" validate:"required"`       // Телефон поддержки
}
