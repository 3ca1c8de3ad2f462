package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeCourse(t *testing.T, svc *ProgressService, userID, courseID uint) {
	t.Helper()
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, svc, courseID)
	lessonsPerModule := len(lessonIDs) / len(moduleIDs)
	for i, lessonID := range lessonIDs {
		_, err := svc.RecordLessonCompletion(userID, courseID, moduleIDs[i/lessonsPerModule], lessonID)
		require.NoError(t, err)
	}
}

func TestIssueCertificateWithoutProgress(t *testing.T) {
	db := newTestDB(t)
	certs := newTestCertificates(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)

	_, err := certs.IssueCertificate(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseIncomplete, "没有进度记录按 0% 处理")
}

func TestIssueCertificateIncomplete(t *testing.T) {
	db := newTestDB(t)
	progress := newTestProgress(t, db)
	certs := newTestCertificates(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, progress, course.ID)

	_, err := progress.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)

	_, err = certs.IssueCertificate(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseIncomplete)
}

func TestIssueCertificateProgressBoundaries(t *testing.T) {
	db := newTestDB(t)
	progress := newTestProgress(t, db)
	certs := newTestCertificates(t, db)
	user := createTestUser(t, db, "alice")

	// 0%：进度记录存在但一节课都没完成
	started := createTestCourse(t, db, 1, 2)
	require.NoError(t, db.Create(&model.CourseProgress{
		UserID:   user.ID,
		CourseID: started.ID,
	}).Error)
	_, err := certs.IssueCertificate(user.ID, started.ID)
	assert.ErrorIs(t, err, util.ErrCourseIncomplete)

	// 99%：100 节课完成 99 节，差一节也不发证
	big := createTestCourse(t, db, 1, 100)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, progress, big.ID)
	for _, lessonID := range lessonIDs[:99] {
		_, err := progress.RecordLessonCompletion(user.ID, big.ID, moduleIDs[0], lessonID)
		require.NoError(t, err)
	}
	view, err := progress.GetProgress(user.ID, big.ID)
	require.NoError(t, err)
	require.Equal(t, 99, view.Progress.OverallProgress)
	_, err = certs.IssueCertificate(user.ID, big.ID)
	assert.ErrorIs(t, err, util.ErrCourseIncomplete)

	// 最后一节补上才能签发
	_, err = progress.RecordLessonCompletion(user.ID, big.ID, moduleIDs[0], lessonIDs[99])
	require.NoError(t, err)
	_, err = certs.IssueCertificate(user.ID, big.ID)
	require.NoError(t, err)
}

func TestIssueCertificateIdempotent(t *testing.T) {
	db := newTestDB(t)
	progress := newTestProgress(t, db)
	certs := newTestCertificates(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)

	completeCourse(t, progress, user.ID, course.ID)

	first, err := certs.IssueCertificate(user.ID, course.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Serial)

	for i := 0; i < 3; i++ {
		again, err := certs.IssueCertificate(user.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Serial, again.Serial, "重复签发必须返回同一张证书")
	}

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 进度记录上的签发标记同步落了
	view, err := progress.GetProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, view.Progress.CertificateIssued)
}

func TestCertificateSurvivesRecompletion(t *testing.T) {
	db := newTestDB(t)
	progress := newTestProgress(t, db)
	certs := newTestCertificates(t, db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, 1, 2)
	moduleIDs, lessonIDs := courseLessonIDsFromDB(t, progress, course.ID)

	completeCourse(t, progress, user.ID, course.ID)
	cert, err := certs.IssueCertificate(user.ID, course.ID)
	require.NoError(t, err)

	// 拿证之后重复完成课时：证书还在，进度不回退
	_, err = progress.RecordLessonCompletion(user.ID, course.ID, moduleIDs[0], lessonIDs[0])
	require.NoError(t, err)

	verified, err := certs.VerifyCertificate(cert.Serial)
	require.NoError(t, err)
	assert.Equal(t, cert.Serial, verified.Serial)

	view, err := progress.GetProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Progress.OverallProgress)
	assert.True(t, view.Progress.CertificateIssued)
}

func TestVerifyCertificateUnknownSerial(t *testing.T) {
	db := newTestDB(t)
	certs := newTestCertificates(t, db)

	_, err := certs.VerifyCertificate("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestListCertificates(t *testing.T) {
	db := newTestDB(t)
	progress := newTestProgress(t, db)
	certs := newTestCertificates(t, db)
	user := createTestUser(t, db, "alice")

	c1 := createTestCourse(t, db, 1, 1)
	c2 := createTestCourse(t, db, 1, 1)
	completeCourse(t, progress, user.ID, c1.ID)
	completeCourse(t, progress, user.ID, c2.ID)

	_, err := certs.IssueCertificate(user.ID, c1.ID)
	require.NoError(t, err)
	_, err = certs.IssueCertificate(user.ID, c2.ID)
	require.NoError(t, err)

	list, err := certs.ListCertificates(user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
