package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/models"
)

// buildTree собирает дерево из плоского списка комментариев в порядке created_at ASC.
//
// Правила:
//   - корни (без родителя) — новые первыми;
//   - ответы сохраняют исходный порядок (старые первыми);
//   - «сирота» (родитель не попал в выборку: удалён или не одобрен) при
//     политике hide скрывается вместе со всем поддеревом, при promote
//     становится корнем.
func buildTree(comments []models.Comment, liked map[uuid.UUID]bool, policy string) []*models.CommentNode {
	nodes := make(map[uuid.UUID]*models.CommentNode, len(comments))
	for i := range comments {
		c := comments[i]
		nodes[c.ID] = &models.CommentNode{Comment: c, LikedByViewer: liked[c.ID]}
	}

	roots := make([]*models.CommentNode, 0)
	for i := range comments {
		n := nodes[comments[i].ID]

		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}

		if parent, ok := nodes[*n.ParentID]; ok && parent != n {
			parent.Replies = append(parent.Replies, n)
			continue
		}

		if policy == config.OrphanPromote {
			roots = append(roots, n)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})

	return roots
}
