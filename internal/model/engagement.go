package model

// TargetType 点赞/评论的目标类型。
type TargetType string

const (
	TargetArtwork TargetType = "artwork"
	TargetArticle TargetType = "article"
)

type Comment struct {
	BaseModel
	AuthorID   uint       `gorm:"index;type:bigint unsigned;not null" json:"authorId"`
	TargetType TargetType `gorm:"size:20;index:idx_comment_target;not null" json:"targetType"`
	TargetID   uint       `gorm:"index:idx_comment_target;type:bigint unsigned;not null" json:"targetId"`
	Content    string     `gorm:"type:text;not null" json:"content"`
}

func (Comment) TableName() string {
	return "comments"
}

// Like (用户, 目标) 唯一，重复点赞在存储层直接挡掉。
type Like struct {
	BaseModel
	UserID     uint       `gorm:"uniqueIndex:idx_like_user_target;type:bigint unsigned;not null" json:"userId"`
	TargetType TargetType `gorm:"size:20;uniqueIndex:idx_like_user_target;not null" json:"targetType"`
	TargetID   uint       `gorm:"uniqueIndex:idx_like_user_target;type:bigint unsigned;not null" json:"targetId"`
}

func (Like) TableName() string {
	return "likes"
}
