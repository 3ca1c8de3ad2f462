package model

import "time"

// Certificate 结业证书，(用户, 课程) 唯一，签发后不可变。
type Certificate struct {
	BaseModel
	// Serial 签发时生成的全局唯一证书编号，32 位十六进制（128 bit 随机）
	Serial   string    `gorm:"size:32;uniqueIndex;not null" json:"certificateId"`
	UserID   uint      `gorm:"uniqueIndex:idx_cert_user_course;type:bigint unsigned;not null" json:"userId"`
	CourseID uint      `gorm:"uniqueIndex:idx_cert_user_course;type:bigint unsigned;not null" json:"courseId"`
	IssuedAt time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// CertificateView 证书 + 展示字段（联表读出，不落库）。
type CertificateView struct {
	Serial      string    `json:"certificateId"`
	IssuedAt    time.Time `json:"issuedAt"`
	UserID      uint      `json:"userId"`
	UserName    string    `json:"userName"`
	CourseID    uint      `json:"courseId"`
	CourseTitle string    `json:"courseTitle"`
}
