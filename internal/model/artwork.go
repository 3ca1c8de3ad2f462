package model

type Artwork struct {
	BaseModel
	AuthorID    uint   `gorm:"index;type:bigint unsigned;not null" json:"authorId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"size:255" json:"imageUrl"`
	VideoURL    string `gorm:"size:255" json:"videoUrl"`
	Duration    int    `gorm:"default:0" json:"duration"` // 视频作品时长（秒），上传时探测
	Views       int    `gorm:"default:0" json:"views"`
	LikeCount   int    `gorm:"default:0" json:"likeCount"`
}

func (Artwork) TableName() string {
	return "artworks"
}
