package models

import (
	"time"

	"github.com/google/uuid"
)

// Post — двуязычная запись блога.
//
// Особенности:
//   - Slug уникален среди всех постов, включая удалённые;
//   - IsDeleted — мягкое удаление, такие посты не видны публичным выборкам;
//   - AuthorID обнуляется при удалении автора;
//   - CategorySlug заполняется только при чтении.
type Post struct {
	ID            uuid.UUID
	TitleEn       string
	TitleTr       string
	SummaryEn     string
	SummaryTr     string
	ContentEn     string
	ContentTr     string
	Slug          string
	CoverImageURL string
	IsPublished   bool
	IsDeleted     bool
	ViewCount     int64
	LikeCount     int64
	DislikeCount  int64
	CategoryID    uuid.UUID
	CategorySlug  string
	AuthorID      *uuid.UUID
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PostFilter — параметры выборки списка постов.
//
// Особенности:
//   - Page начинается с 1; при PageSize == 0 применяется серверный default;
//   - Search ищет без учёта регистра по заголовкам и аннотациям на обоих языках;
//   - IncludeDrafts доступен только редакторам;
//   - IncludeDeleted HTTP-слой не выставляет: публичный список удалённых постов не показывает.
type PostFilter struct {
	Page           int
	PageSize       int
	CategorySlug   string
	Search         string
	IncludeDrafts  bool
	IncludeDeleted bool
}

// PostPage — страница постов с общим количеством.
type PostPage struct {
	Items    []Post
	Total    int64
	Page     int
	PageSize int
}

// LikeResult — состояние лайка после переключения.
type LikeResult struct {
	Liked     bool
	LikeCount int64
}

// PostView — пост для чтения с отрендеренным HTML обоих языков.
type PostView struct {
	Post
	ContentHTMLEn string
	ContentHTMLTr string
}
