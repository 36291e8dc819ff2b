package models

import (
	"time"

	"github.com/google/uuid"
)

// Category — категория блога.
type Category struct {
	ID           uuid.UUID
	NameEn       string
	NameTr       string
	Slug         string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}
