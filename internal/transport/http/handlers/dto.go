package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type revokeRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// sessionResponse — ответ login/refresh-token.
type sessionResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Roles        []string  `json:"roles"`
}

type revokeResponse struct {
	Revoked bool `json:"revoked"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type postRequest struct {
	TitleEn       string    `json:"titleEn"`
	TitleTr       string    `json:"titleTr"`
	SummaryEn     string    `json:"summaryEn"`
	SummaryTr     string    `json:"summaryTr"`
	ContentEn     string    `json:"contentEn"`
	ContentTr     string    `json:"contentTr"`
	Slug          string    `json:"slug"`
	CoverImageURL string    `json:"coverImageUrl"`
	IsPublished   bool      `json:"isPublished"`
	CategoryID    uuid.UUID `json:"categoryId"`
}

type postResponse struct {
	ID            uuid.UUID  `json:"id"`
	TitleEn       string     `json:"titleEn"`
	TitleTr       string     `json:"titleTr"`
	SummaryEn     string     `json:"summaryEn"`
	SummaryTr     string     `json:"summaryTr"`
	ContentEn     string     `json:"contentEn,omitempty"`
	ContentTr     string     `json:"contentTr,omitempty"`
	ContentHTMLEn string     `json:"contentHtmlEn,omitempty"`
	ContentHTMLTr string     `json:"contentHtmlTr,omitempty"`
	Slug          string     `json:"slug"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	IsPublished   bool       `json:"isPublished"`
	ViewCount     int64      `json:"viewCount"`
	LikeCount     int64      `json:"likeCount"`
	DislikeCount  int64      `json:"dislikeCount"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	CategorySlug  string     `json:"categorySlug,omitempty"`
	AuthorID      *uuid.UUID `json:"authorId,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type postListResponse struct {
	Items      []postResponse `json:"items"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int64          `json:"totalPages"`
}

type categoryRequest struct {
	NameEn       string `json:"nameEn"`
	NameTr       string `json:"nameTr"`
	Slug         string `json:"slug"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     *bool  `json:"isActive"`
}

type categoryResponse struct {
	ID           uuid.UUID `json:"id"`
	NameEn       string    `json:"nameEn"`
	NameTr       string    `json:"nameTr"`
	Slug         string    `json:"slug"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
}

type commentRequest struct {
	AuthorName      string     `json:"authorName"`
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parentCommentId"`
}

type commentResponse struct {
	ID              uuid.UUID  `json:"id"`
	PostID          uuid.UUID  `json:"postId"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty"`
	AuthorName      string     `json:"authorName"`
	Content         string     `json:"content"`
	IsApproved      bool       `json:"isApproved"`
	LikeCount       int64      `json:"likeCount"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type commentNodeResponse struct {
	commentResponse
	LikedByViewer bool                  `json:"likedByViewer"`
	Replies       []commentNodeResponse `json:"replies"`
}

type likeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type contactListResponse struct {
	Items         []contactResponse `json:"items"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

func sessionFromModel(s *models.Session) sessionResponse {
	return sessionResponse{
		Token:        s.Tokens.SessionToken,
		RefreshToken: s.Tokens.RefreshToken,
		Expiration:   s.Tokens.SessionExpiresAt,
		Username:     s.User.Username,
		FullName:     s.User.FullName,
		Roles:        []string{string(s.User.Role)},
	}
}

func userFromModel(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Roles:     []string{string(u.Role)},
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func (in postRequest) toInput() service.PostInput {
	return service.PostInput{
		TitleEn:       in.TitleEn,
		TitleTr:       in.TitleTr,
		SummaryEn:     in.SummaryEn,
		SummaryTr:     in.SummaryTr,
		ContentEn:     in.ContentEn,
		ContentTr:     in.ContentTr,
		Slug:          in.Slug,
		CoverImageURL: in.CoverImageURL,
		IsPublished:   in.IsPublished,
		CategoryID:    in.CategoryID,
	}
}

func postFromModel(p *models.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		TitleEn:       p.TitleEn,
		TitleTr:       p.TitleTr,
		SummaryEn:     p.SummaryEn,
		SummaryTr:     p.SummaryTr,
		ContentEn:     p.ContentEn,
		ContentTr:     p.ContentTr,
		Slug:          p.Slug,
		CoverImageURL: p.CoverImageURL,
		IsPublished:   p.IsPublished,
		ViewCount:     p.ViewCount,
		LikeCount:     p.LikeCount,
		DislikeCount:  p.DislikeCount,
		CategoryID:    p.CategoryID,
		CategorySlug:  p.CategorySlug,
		AuthorID:      p.AuthorID,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// postSummaryFromModel — элемент списка, без тела поста.
func postSummaryFromModel(p *models.Post) postResponse {
	out := postFromModel(p)
	out.ContentEn, out.ContentTr = "", ""
	return out
}

func postViewFromModel(v *models.PostView) postResponse {
	out := postFromModel(&v.Post)
	out.ContentHTMLEn = v.ContentHTMLEn
	out.ContentHTMLTr = v.ContentHTMLTr
	return out
}

func postPageFromModel(p *models.PostPage) postListResponse {
	items := make([]postResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, postSummaryFromModel(&p.Items[i]))
	}

	var pages int64
	if p.PageSize > 0 {
		pages = (p.Total + int64(p.PageSize) - 1) / int64(p.PageSize)
	}

	return postListResponse{
		Items:      items,
		TotalCount: p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}
}

func categoryFromModel(c *models.Category) categoryResponse {
	return categoryResponse{
		ID:           c.ID,
		NameEn:       c.NameEn,
		NameTr:       c.NameTr,
		Slug:         c.Slug,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
	}
}

func commentFromModel(c *models.Comment) commentResponse {
	return commentResponse{
		ID:              c.ID,
		PostID:          c.PostID,
		ParentCommentID: c.ParentID,
		AuthorName:      c.AuthorName,
		Content:         c.Content,
		IsApproved:      c.IsApproved,
		LikeCount:       c.LikeCount,
		CreatedAt:       c.CreatedAt,
	}
}

func commentTreeFromModel(nodes []*models.CommentNode) []commentNodeResponse {
	out := make([]commentNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, commentNodeResponse{
			commentResponse: commentFromModel(&n.Comment),
			LikedByViewer:   n.LikedByViewer,
			Replies:         commentTreeFromModel(n.Replies),
		})
	}

	return out
}

func contactFromModel(m *models.ContactMessage) contactResponse {
	return contactResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}
