package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/models"
)

var treeBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func treeComment(postID uuid.UUID, parent *models.Comment, minute int) models.Comment {
	c := models.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		IsApproved: true,
		CreatedAt:  treeBase.Add(time.Duration(minute) * time.Minute),
	}
	if parent != nil {
		pid := parent.ID
		c.ParentID = &pid
	}
	return c
}

// A -> B -> C собирается в цепочку глубины 3.
func TestBuildTree_Chain(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	a := treeComment(post, nil, 0)
	b := treeComment(post, &a, 1)
	c := treeComment(post, &b, 2)

	roots := buildTree([]models.Comment{a, b, c}, nil, config.OrphanHide)

	require.Len(t, roots, 1)
	require.Equal(t, a.ID, roots[0].ID)
	require.Len(t, roots[0].Replies, 1)
	require.Equal(t, b.ID, roots[0].Replies[0].ID)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	require.Equal(t, c.ID, roots[0].Replies[0].Replies[0].ID)
	require.Empty(t, roots[0].Replies[0].Replies[0].Replies)
}

// Корни — новые первыми, ответы — в порядке создания.
func TestBuildTree_Ordering(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	r1 := treeComment(post, nil, 0)
	r2 := treeComment(post, nil, 5)
	x1 := treeComment(post, &r1, 6)
	x2 := treeComment(post, &r1, 7)

	roots := buildTree([]models.Comment{r1, r2, x1, x2}, nil, config.OrphanHide)

	require.Len(t, roots, 2)
	require.Equal(t, r2.ID, roots[0].ID)
	require.Equal(t, r1.ID, roots[1].ID)
	require.Len(t, roots[1].Replies, 2)
	require.Equal(t, x1.ID, roots[1].Replies[0].ID)
	require.Equal(t, x2.ID, roots[1].Replies[1].ID)
}

func TestBuildTree_OrphanPolicies(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	root := treeComment(post, nil, 0)
	hidden := treeComment(post, nil, 1) // родитель не попал в выборку
	orphan := treeComment(post, &hidden, 2)
	grandchild := treeComment(post, &orphan, 3)

	list := []models.Comment{root, orphan, grandchild}

	t.Run("hide drops subtree", func(t *testing.T) {
		roots := buildTree(list, nil, config.OrphanHide)
		require.Len(t, roots, 1)
		require.Equal(t, root.ID, roots[0].ID)
		require.Empty(t, roots[0].Replies)
	})

	t.Run("promote lifts orphan to root", func(t *testing.T) {
		roots := buildTree(list, nil, config.OrphanPromote)
		require.Len(t, roots, 2)
		require.Equal(t, orphan.ID, roots[0].ID)
		require.Len(t, roots[0].Replies, 1)
		require.Equal(t, grandchild.ID, roots[0].Replies[0].ID)
		require.Equal(t, root.ID, roots[1].ID)
	})
}

func TestBuildTree_ViewerLikes(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	a := treeComment(post, nil, 0)
	b := treeComment(post, &a, 1)

	roots := buildTree([]models.Comment{a, b}, map[uuid.UUID]bool{b.ID: true}, config.OrphanHide)

	require.False(t, roots[0].LikedByViewer)
	require.True(t, roots[0].Replies[0].LikedByViewer)
}

func TestBuildTree_Empty(t *testing.T) {
	t.Parallel()

	roots := buildTree(nil, nil, config.OrphanHide)
	require.NotNil(t, roots)
	require.Empty(t, roots)
}
