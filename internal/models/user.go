// models содержит доменные сущности портфолио-бэкенда.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя.
type Role string

const (
	RoleUser   Role = "User"
	RoleWriter Role = "Writer"
	RoleAdmin  Role = "Admin"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleWriter, RoleAdmin:
		return true
	}

	return false
}

// User — учётная запись.
//
// Особенности:
//   - Username уникален без учёта регистра (citext);
//   - PasswordHash — bcrypt, наружу не отдаётся никогда;
//   - неактивный пользователь не может войти и обновить сессию.
type User struct {
	ID           uuid.UUID
	Username     string
	FullName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal — аутентифицированный субъект запроса, извлекается из session-токена.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

// HasRole сообщает, входит ли роль субъекта в перечисленные.
func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}

	return false
}
