package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// 0 -> 1 -> 0: счётчик возвращается к исходному и не уходит в минус.
func TestTogglePostLike_Sequence(t *testing.T) {
	t.Parallel()

	s, d, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	postID, userID := uuid.New(), uuid.New()

	gomock.InOrder(
		d.st.EXPECT().TogglePostLike(gomock.Any(), postID, userID).Return(models.LikeResult{Liked: true, LikeCount: 1}, nil),
		d.st.EXPECT().TogglePostLike(gomock.Any(), postID, userID).Return(models.LikeResult{Liked: false, LikeCount: 0}, nil),
		d.st.EXPECT().TogglePostLike(gomock.Any(), postID, userID).Return(models.LikeResult{Liked: true, LikeCount: 1}, nil),
	)

	res, err := s.TogglePostLike(context.Background(), postID, userID)
	require.NoError(t, err)
	require.True(t, res.Liked)
	require.EqualValues(t, 1, res.LikeCount)

	res, err = s.TogglePostLike(context.Background(), postID, userID)
	require.NoError(t, err)
	require.False(t, res.Liked)
	require.EqualValues(t, 0, res.LikeCount)

	res, err = s.TogglePostLike(context.Background(), postID, userID)
	require.NoError(t, err)
	require.True(t, res.Liked)
	require.EqualValues(t, 1, res.LikeCount)
}

func TestToggleLike_TargetMissing(t *testing.T) {
	t.Parallel()

	s, d, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	d.st.EXPECT().TogglePostLike(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.LikeResult{}, storage.ErrNotFound)
	d.st.EXPECT().ToggleCommentLike(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.LikeResult{}, storage.ErrInvalidReference)

	_, err := s.TogglePostLike(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleCommentLike(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleCommentLike_OK(t *testing.T) {
	t.Parallel()

	s, d, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	commentID, userID := uuid.New(), uuid.New()
	d.st.EXPECT().ToggleCommentLike(gomock.Any(), commentID, userID).Return(models.LikeResult{Liked: true, LikeCount: 4}, nil)

	res, err := s.ToggleCommentLike(context.Background(), commentID, userID)
	require.NoError(t, err)
	require.Equal(t, models.LikeResult{Liked: true, LikeCount: 4}, res)
}
