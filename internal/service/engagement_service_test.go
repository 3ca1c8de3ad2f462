package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEngagement(t *testing.T, db *gorm.DB) *EngagementService {
	t.Helper()
	return NewEngagementService(
		repository.NewCommentRepository(db),
		repository.NewLikeRepository(db),
		repository.NewArtworkRepository(db),
		repository.NewArticleRepository(db),
		newTestLedger(t, db),
	)
}

func createTestArtwork(t *testing.T, db *gorm.DB, authorID uint) *model.Artwork {
	t.Helper()
	artwork := &model.Artwork{AuthorID: authorID, Title: "测试作品"}
	require.NoError(t, repository.NewArtworkRepository(db).Create(artwork))
	return artwork
}

func TestLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	author := createTestUser(t, db, "alice")
	liker := createTestUser(t, db, "bob")
	artwork := createTestArtwork(t, db, author.ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Like(liker.ID, model.TargetArtwork, artwork.ID))
	}

	fresh, err := svc.ArtworkRepo.FindByID(artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.LikeCount, "重复点赞只计一次")

	// 作者只拿一次被赞经验（5 XP）
	xp, err := svc.Ledger.LedgerRepo.GetXP(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, xp)
}

func TestSelfLikeAwardsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	author := createTestUser(t, db, "alice")
	artwork := createTestArtwork(t, db, author.ID)

	require.NoError(t, svc.Like(author.ID, model.TargetArtwork, artwork.ID))

	xp, err := svc.Ledger.LedgerRepo.GetXP(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, xp)
}

func TestUnlikeKeepsXP(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	author := createTestUser(t, db, "alice")
	liker := createTestUser(t, db, "bob")
	artwork := createTestArtwork(t, db, author.ID)

	require.NoError(t, svc.Like(liker.ID, model.TargetArtwork, artwork.ID))
	require.NoError(t, svc.Unlike(liker.ID, model.TargetArtwork, artwork.ID))
	// 没点过赞时取消是 no-op
	require.NoError(t, svc.Unlike(liker.ID, model.TargetArtwork, artwork.ID))

	fresh, err := svc.ArtworkRepo.FindByID(artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.LikeCount)

	// 总账只增不减，取消点赞不回收经验
	xp, err := svc.Ledger.LedgerRepo.GetXP(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, xp)
}

func TestLikeUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	user := createTestUser(t, db, "alice")

	err := svc.Like(user.ID, model.TargetArtwork, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)

	err = svc.Like(user.ID, model.TargetType("unknown"), 1)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCommentAwardsBothSides(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	author := createTestUser(t, db, "alice")
	commenter := createTestUser(t, db, "bob")
	artwork := createTestArtwork(t, db, author.ID)

	comment, err := svc.CreateComment(commenter.ID, model.TargetArtwork, artwork.ID, CommentRequest{Content: "很棒"})
	require.NoError(t, err)
	require.NotZero(t, comment.ID)

	// 评论者 +2，作者 +3
	commenterXP, err := svc.Ledger.LedgerRepo.GetXP(commenter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, commenterXP)

	authorXP, err := svc.Ledger.LedgerRepo.GetXP(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, authorXP)
}

func TestSelfCommentAwardsOnlyGiven(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	author := createTestUser(t, db, "alice")
	artwork := createTestArtwork(t, db, author.ID)

	_, err := svc.CreateComment(author.ID, model.TargetArtwork, artwork.ID, CommentRequest{Content: "自评"})
	require.NoError(t, err)

	xp, err := svc.Ledger.LedgerRepo.GetXP(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, xp, "给自己的作品评论不拿被评经验")
}

func TestListComments(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEngagement(t, db)
	author := createTestUser(t, db, "alice")
	artwork := createTestArtwork(t, db, author.ID)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateComment(author.ID, model.TargetArtwork, artwork.ID, CommentRequest{Content: "评论"})
		require.NoError(t, err)
	}

	comments, total, err := svc.ListComments(model.TargetArtwork, artwork.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, comments, 2)
}
