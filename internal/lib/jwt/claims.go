// Package jwt реализует разбор и проверку JWT токенов внешнего
// провайдера идентификации.
//
// Сервис биллинга токены не выпускает: провайдер подписывает их общим
// секретом, здесь они только проверяются и превращаются в типизированные
// данные о пользователе.
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"uid"`  // Идентификатор пользователя у провайдера
	Role                 string `json:"role"` // Строковая роль, типизируется через models.ParseRole
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}
