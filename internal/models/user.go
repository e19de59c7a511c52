// Package models содержит доменные структуры биллинга:
// пользователей-владельцев, платежи, конфигурацию оплаты и
// производные статусы подписки.
package models

import (
	"fmt"
	"time"
)

// Role описывает закрытое перечисление ролей пользователя.
// Сравнение по строкам из внешнего провайдера выполняется только
// в ParseRole, дальше по коду роль всегда типизирована.
type Role string

const (
	// RoleAdmin — администратор площадки.
	RoleAdmin Role = "ADMIN"
	// RoleOwner — владелец бизнеса, субъект биллинга.
	RoleOwner Role = "OWNER"
	// RoleCustomer — покупатель, биллинг его не касается.
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole превращает строковую роль из токена или БД в типизированную.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RoleCustomer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// SubscriptionStatus — производный статус подписки владельца.
// Всегда пересчитывается из becameOwnerAt и subscriptionPaidUntil,
// в БД хранится только как отображаемая проекция.
type SubscriptionStatus string

const (
	// StatusTrial — идёт пробный месяц.
	StatusTrial SubscriptionStatus = "TRIAL"
	// StatusActive — подписка оплачена.
	StatusActive SubscriptionStatus = "ACTIVE"
	// StatusPaymentDueSoon — оплата истекает через три дня.
	StatusPaymentDueSoon SubscriptionStatus = "PAYMENT_DUE_SOON"
	// StatusOverdue — просрочка до недели включительно.
	StatusOverdue SubscriptionStatus = "OVERDUE"
	// StatusSuspended — просрочка больше недели, доступ закрыт.
	StatusSuspended SubscriptionStatus = "SUSPENDED"
	// StatusSuspendedNoPayment — пробный месяц кончился, оплат не было.
	StatusSuspendedNoPayment SubscriptionStatus = "SUSPENDED_NO_PAYMENT"
)

// User представляет пользователя площадки. Для владельцев заполнены
// поля биллинга: BecameOwnerAt выставляется один раз и не меняется,
// SubscriptionPaidUntil двигает вперёд только одобренный платёж.
type User struct {
	UID                   string     // Уникальный идентификатор пользователя
	Email                 string     // Электронная почта
	Phone                 *string    // Телефон, может отсутствовать
	FullName              *string    // Полное имя, может отсутствовать
	Role                  Role       // Роль пользователя
	IsActive              bool       // Учётная запись не отключена администратором
	BecameOwnerAt         *time.Time // Начало пробного периода владельца
	SubscriptionPaidUntil *time.Time // До какой даты подписка оплачена; nil — оплат не было
	SubscriptionStatus    string     // Кэшированная проекция статуса для списков в админке
	CreatedAt             time.Time
}
