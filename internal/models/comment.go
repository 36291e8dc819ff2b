package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к посту.
//
// Особенности:
//   - UserID == nil для гостевых комментариев;
//   - ParentID ссылается на комментарий того же поста;
//   - в публичную выдачу попадают только одобренные и неудалённые.
type Comment struct {
	ID         uuid.UUID
	PostID     uuid.UUID
	UserID     *uuid.UUID
	AuthorName string
	ParentID   *uuid.UUID
	Content    string
	IsApproved bool
	IsDeleted  bool
	LikeCount  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CommentNode — узел собранного дерева комментариев.
type CommentNode struct {
	Comment
	LikedByViewer bool
	Replies       []*CommentNode
}
