package models

import "time"

// ContactMessage — сообщение из формы обратной связи (MongoDB).
// ID — ObjectID MongoDB в hex-представлении.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// ListParams — параметры курсорной выдачи.
type ListParams struct {
	PageSize  int32
	PageToken string
}

// ContactPage — страница сообщений со ссылкой на продолжение.
type ContactPage struct {
	Items         []ContactMessage
	NextPageToken string
}
