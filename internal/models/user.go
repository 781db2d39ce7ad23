// Package models содержит доменную модель пользователя системы,
// каталога (продукты, модули, ресурсы) и подписок.
// Структуры используются в бизнес‑логике, при работе с хранилищем
// и сериализуются в JSON-ответы HTTP-обработчиков.
package models

import (
	"errors"
	"fmt"
)

// Role — закрытый набор ролей пользователя.
type Role string

const (
	// RoleAdmin — администратор, управляет каталогом и подписками.
	RoleAdmin Role = "ADMIN"
	// RoleUser — обычный пользователь, роль при самостоятельной регистрации.
	RoleUser Role = "USER"
)

// ErrUnknownRole возвращается, если значение роли не входит в {ADMIN, USER}.
var ErrUnknownRole = errors.New("unsupported user type")

// ParseRole разбирает строковое значение роли из токена или хранилища.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Type         Role   `json:"type"`
	Active       bool   `json:"active"`
}

// UserWithProducts представляет пользователя вместе со списком доступных ему продуктов.
type UserWithProducts struct {
	User
	Products []Product `json:"products"`
}

// NewUser содержит данные для регистрации пользователя.
type NewUser struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// ProfileUpdate описывает изменение имени и фамилии в собственном профиле.
type ProfileUpdate struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// PasswordChange описывает смену пароля с подтверждением текущего.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Credentials содержит данные для входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
