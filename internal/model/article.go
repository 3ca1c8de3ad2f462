package model

type Article struct {
	BaseModel
	AuthorID  uint   `gorm:"index;type:bigint unsigned;not null" json:"authorId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Content   string `gorm:"type:longtext" json:"content"`
	CoverURL  string `gorm:"size:255" json:"coverUrl"`
	Published bool   `gorm:"default:true" json:"published"`
	Views     int    `gorm:"default:0" json:"views"`
	LikeCount int    `gorm:"default:0" json:"likeCount"`
}

func (Article) TableName() string {
	return "articles"
}
