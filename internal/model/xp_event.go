package model

type XPReason string

const (
	XPArtworkCreated  XPReason = "artwork_created"
	XPArticleCreated  XPReason = "article_created"
	XPArtworkLiked    XPReason = "artwork_liked"
	XPCommentReceived XPReason = "comment_received"
	XPCommentGiven    XPReason = "comment_given"
	XPLessonCompleted XPReason = "lesson_completed"
	XPCourseCompleted XPReason = "course_completed"
)

// XPEvent 经验值流水。EventKey 上的唯一索引让同一事件的重复投递
// 只记账一次。
type XPEvent struct {
	BaseModel
	UserID   uint     `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Amount   int      `gorm:"not null" json:"amount"`
	Reason   XPReason `gorm:"size:50;not null" json:"reason"`
	EventKey string   `gorm:"size:191;uniqueIndex;not null" json:"eventKey"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}
