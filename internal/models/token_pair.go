package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе и обновлении сессии.
//
// Описание:
//   - SessionToken — JWT для авторизации запросов;
//   - RefreshToken — случайный секрет для обновления пары; на сервере хранится только его хэш;
//   - SessionExpiresAt — момент истечения session-токена (UTC).
type TokenPair struct {
	SessionToken     string
	RefreshToken     string
	SessionExpiresAt time.Time
}

// Session — результат входа/обновления: пара токенов и владелец.
type Session struct {
	Tokens TokenPair
	User   User
}
