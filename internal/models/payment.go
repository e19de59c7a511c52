package models

import "time"

// PaymentStatus — статус ручного платежа.
type PaymentStatus string

const (
	// PaymentPending — платёж заявлен владельцем и ждёт проверки.
	PaymentPending PaymentStatus = "PENDING"
	// PaymentApproved — платёж подтверждён администратором (терминальный).
	PaymentApproved PaymentStatus = "APPROVED"
	// PaymentRejected — платёж отклонён администратором (терминальный).
	PaymentRejected PaymentStatus = "REJECTED"
)

// Payment представляет заявленный вручную платёж владельца.
// После проверки (статус отличен от PENDING) запись неизменяема.
type Payment struct {
	UID         string        // Уникальный идентификатор платежа
	OwnerUID    string        // Владелец, заявивший платёж
	Amount      int           // Сумма в наименьших единицах валюты
	PeriodMonth string        // Оплачиваемый месяц в формате 2006-01
	Status      PaymentStatus // PENDING | APPROVED | REJECTED
	ProofURL    string        // Ссылка на подтверждение перевода
	OwnerNote   string        // Комментарий владельца
	AdminNote   string        // Комментарий проверяющего
	ReviewedBy  *string       // UID администратора, проверившего платёж
	ReviewedAt  *time.Time    // Момент проверки
	CreatedAt   time.Time
}

// DummyPayment принимает данные заявляемого платежа из JSON-запроса.
type DummyPayment struct {
	Amount      int    `json:"amount" validate:"required,gt=0"`                   // Сумма (>0)
	PeriodMonth string `json:"period_month" validate:"required,datetime=2006-01"` // Месяц в формате 2006-01
	ProofURL    string `json:"proof_url" validate:"required,url"`                 // Подтверждение перевода
	OwnerNote   string `json:"owner_note"`                                        // Комментарий владельца
}
