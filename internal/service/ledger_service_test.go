package service

import (
	"artlearn_backend/internal/model"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltaAccumulates(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := createTestUser(t, db, "alice")

	require.NoError(t, ledger.ApplyDelta(user.ID, 50, model.XPArtworkCreated, "artwork_created:1"))
	require.NoError(t, ledger.ApplyDelta(user.ID, 40, model.XPArticleCreated, "article_created:1"))

	xp, err := ledger.LedgerRepo.GetXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, xp)
}

func TestApplyDeltaIdempotentByEventKey(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := createTestUser(t, db, "alice")

	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.ApplyDelta(user.ID, 50, model.XPArtworkCreated, "artwork_created:1"))
	}

	xp, err := ledger.LedgerRepo.GetXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, xp, "同一事件重复投递只应记账一次")

	var events int64
	require.NoError(t, db.Model(&model.XPEvent{}).Where("user_id = ?", user.ID).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestApplyDeltaConcurrentSumsExactly(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := createTestUser(t, db, "alice")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("comment_given:%d", i)
			assert.NoError(t, ledger.ApplyDelta(user.ID, 2, model.XPCommentGiven, key))
		}(i)
	}
	wg.Wait()

	xp, err := ledger.LedgerRepo.GetXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, n*2, xp, "并发加分不允许互相覆盖")
}

func TestLevelMonotonicAndDerivedFromXP(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := createTestUser(t, db, "alice")

	// 每 200 XP 升一级
	require.NoError(t, ledger.ApplyDelta(user.ID, 150, model.XPCourseCompleted, "course_completed:u:1:c:1"))
	fresh, err := ledger.UserRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Level)

	require.NoError(t, ledger.ApplyDelta(user.ID, 100, model.XPCourseCompleted, "course_completed:u:1:c:2"))
	fresh, err = ledger.UserRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Level)

	// 更小的等级写入不会生效
	require.NoError(t, ledger.LedgerRepo.RaiseLevel(user.ID, 1))
	fresh, err = ledger.UserRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Level, "等级永不下降")
}

func TestAwardUsesConfiguredRewards(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := createTestUser(t, db, "alice")

	ledger.Award(user.ID, model.XPArtworkCreated, "artwork_created:7")
	ledger.Award(user.ID, model.XPReason("unknown_reason"), "unknown:1")

	xp, err := ledger.LedgerRepo.GetXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, xp, "未配置奖励的原因不加分")
}

func TestGetLeaderboardOrdersByXP(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, ledger.ApplyDelta(alice.ID, 30, model.XPCommentGiven, "a"))
	require.NoError(t, ledger.ApplyDelta(bob.ID, 90, model.XPCommentGiven, "b"))
	require.NoError(t, ledger.ApplyDelta(carol.ID, 60, model.XPCommentGiven, "c"))

	entries, err := ledger.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "bob", entries[0].User)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "carol", entries[1].User)
	assert.Equal(t, "alice", entries[2].User)
}

func TestGetLeaderboardDegradesWhenCacheDown(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	// 指向一个没人监听的端口，模拟 Redis 挂掉
	ledger.Redis = redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	require.NoError(t, ledger.ApplyDelta(alice.ID, 30, model.XPCommentGiven, "a"))
	require.NoError(t, ledger.ApplyDelta(bob.ID, 90, model.XPCommentGiven, "b"))

	entries, err := ledger.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].User)
	assert.Equal(t, "alice", entries[1].User)
}

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	require.NoError(t, ledger.ApplyDelta(alice.ID, 250, model.XPCommentGiven, "a"))
	require.NoError(t, ledger.ApplyDelta(bob.ID, 500, model.XPCommentGiven, "b"))

	stats, err := ledger.GetUserStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, stats.TotalXP)
	assert.Equal(t, 2, stats.CurrentLevel)
	assert.Equal(t, 400, stats.NextLevelXP)
	assert.Equal(t, 2, stats.Rank)
}
