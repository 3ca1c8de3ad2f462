package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgressNotStarted(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)

	view, err := svc.GetProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, view.Started)
	assert.Nil(t, view.Progress)
}

func TestRecordLessonCompletionScenario(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")

	course := createTestCourse(t, db, 2, 0)
	repo := svc.CourseRepo
	full, err := repo.FindByID(course.ID)
	require.NoError(t, err)
	m1, m2 := full.Modules[0], full.Modules[1]

	l1 := &model.Lesson{ModuleID: m1.ID, Title: "L1"}
	l2 := &model.Lesson{ModuleID: m1.ID, Title: "L2"}
	l3 := &model.Lesson{ModuleID: m2.ID, Title: "L3"}
	require.NoError(t, repo.CreateLesson(l1))
	require.NoError(t, repo.CreateLesson(l2))
	require.NoError(t, repo.CreateLesson(l3))

	progress, err := svc.RecordLessonCompletion(user.ID, course.ID, m1.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, progress.OverallProgress)
	assert.Nil(t, progress.CompletedAt)

	progress, err = svc.RecordLessonCompletion(user.ID, course.ID, m1.ID, l2.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.OverallProgress)
	assert.Nil(t, progress.CompletedAt)

	progress, err = svc.RecordLessonCompletion(user.ID, course.ID, m2.ID, l3.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.OverallProgress)
	require.NotNil(t, progress.CompletedAt)

	// 100% 后重复完成：完成度、完成时间都不动
	firstCompletedAt := *progress.CompletedAt
	progress, err = svc.RecordLessonCompletion(user.ID, course.ID, m1.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.OverallProgress)
	require.NotNil(t, progress.CompletedAt)
	assert.WithinDuration(t, firstCompletedAt, *progress.CompletedAt, time.Second)
}

func TestRecordLessonCompletionIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, svc, course.ID)

	progress, err := svc.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 50, progress.OverallProgress)

	var firstLessonCompletedAt time.Time
	for _, m := range progress.Modules {
		for _, l := range m.Lessons {
			if l.LessonID == lessonIDs[0] {
				require.NotNil(t, l.CompletedAt)
				firstLessonCompletedAt = *l.CompletedAt
			}
		}
	}

	again, err := svc.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 50, again.OverallProgress)
	for _, m := range again.Modules {
		for _, l := range m.Lessons {
			if l.LessonID == lessonIDs[0] {
				require.NotNil(t, l.CompletedAt)
				assert.WithinDuration(t, firstLessonCompletedAt, *l.CompletedAt, time.Second)
			}
		}
	}
}

func TestRecordLessonCompletionOrderIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	course := createTestCourse(t, db, 2, 2)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, svc, course.ID)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// alice 顺序学，bob 倒序学，最终完成度一致
	for i := range lessonIDs {
		mi := i / 2
		_, err := svc.RecordLessonCompletion(alice.ID, course.ID, moduleIDs[mi], lessonIDs[i])
		require.NoError(t, err)
	}
	for i := len(lessonIDs) - 1; i >= 0; i-- {
		mi := i / 2
		_, err := svc.RecordLessonCompletion(bob.ID, course.ID, moduleIDs[mi], lessonIDs[i])
		require.NoError(t, err)
	}

	av, err := svc.GetProgress(alice.ID, course.ID)
	require.NoError(t, err)
	bv, err := svc.GetProgress(bob.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, av.Progress.OverallProgress)
	assert.Equal(t, 100, bv.Progress.OverallProgress)
	assert.NotNil(t, av.Progress.CompletedAt)
	assert.NotNil(t, bv.Progress.CompletedAt)
}

func TestRecordLessonCompletionConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, svc, course.ID)

	// 两个课时并发完成：谁都不能把对方的记录覆盖掉
	var wg sync.WaitGroup
	errs := make([]error, len(lessonIDs))
	for i, lessonID := range lessonIDs {
		wg.Add(1)
		go func(i int, lessonID uint) {
			defer wg.Done()
			_, errs[i] = svc.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonID)
		}(i, lessonID)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	view, err := svc.GetProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Progress.OverallProgress)
	assert.NotNil(t, view.Progress.CompletedAt)
	for _, m := range view.Progress.Modules {
		for _, l := range m.Lessons {
			assert.NotNil(t, l.CompletedAt)
		}
	}
}

func TestRecordLessonCompletionUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")

	_, err := svc.RecordLessonCompletion(user.ID, 9999, 1, 1)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestRecordLessonCompletionAwardsXP(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 1)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, svc, course.ID)

	_, err := svc.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)

	// 课时完成 10 + 课程完成 100
	xp, err := svc.Ledger.LedgerRepo.GetXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, xp)

	// 重复完成不会再加
	_, err = svc.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)
	xp, err = svc.Ledger.LedgerRepo.GetXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, xp)
}

func TestRecordLessonTime(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProgress(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, svc, course.ID)

	// 还没有进度记录时不可记时长
	err := svc.RecordLessonTime(user.ID, course.ID, moduleIDs[0], lessonIDs[0], 60)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = svc.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)

	require.NoError(t, svc.RecordLessonTime(user.ID, course.ID, moduleIDs[0], lessonIDs[0], 60))
	require.NoError(t, svc.RecordLessonTime(user.ID, course.ID, moduleIDs[0], lessonIDs[0], 30))
	// 未完成但已铺入分母的课时也可以累计时长
	require.NoError(t, svc.RecordLessonTime(user.ID, course.ID, moduleIDs[0], lessonIDs[1], 15))

	view, err := svc.GetProgress(user.ID, course.ID)
	require.NoError(t, err)
	var spent []int
	for _, m := range view.Progress.Modules {
		for _, l := range m.Lessons {
			spent = append(spent, l.TimeSpent)
		}
	}
	assert.ElementsMatch(t, []int{90, 15}, spent)
	// 记时长不影响完成度
	assert.Equal(t, 50, view.Progress.OverallProgress)
}

// courseLessonIDsFromDB 按目录顺序取模块/课时 ID，lessonIDs 按模块分组展开。
func courseLessonIDsFromDB(t *testing.T, svc *ProgressService, courseID uint) (moduleIDs, lessonIDs []uint) {
	t.Helper()
	course, err := svc.CourseRepo.FindByID(courseID)
	require.NoError(t, err)
	for _, m := range course.Modules {
		moduleIDs = append(moduleIDs, m.ID)
		for _, l := range m.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}
	return
}
