package repository

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/util"

	"gorm.io/gorm"
)

// LedgerRepository 是经验值的唯一写入口。所有加分都走这里的
// 原子自增，调用方不允许自己做读-改-写。
type LedgerRepository struct {
	DB *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: tx}
}

// CreateEvent 记一条流水。事件已存在（EventKey 唯一索引冲突）时
// 返回 util.ErrConflict，调用方按"已记账"处理。
func (r *LedgerRepository) CreateEvent(event *model.XPEvent) error {
	if err := r.DB.Create(event).Error; err != nil {
		if IsDuplicateKey(err) {
			return util.ErrConflict
		}
		return err
	}
	return nil
}

// IncrementXP 原子自增，并发加分不会互相淹掉。
func (r *LedgerRepository) IncrementXP(userID uint, amount int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("xp", gorm.Expr("xp + ?", amount)).
		Error
}

func (r *LedgerRepository) GetXP(userID uint) (int, error) {
	var xp int
	err := r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Select("xp").
		Scan(&xp).Error
	return xp, err
}

// RaiseLevel 只升不降。并发时较小的等级写入会匹配不到行，直接丢弃。
func (r *LedgerRepository) RaiseLevel(userID uint, level int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ? AND level < ?", userID, level).
		Update("level", level).
		Error
}
