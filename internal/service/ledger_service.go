package service

import (
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"artlearn_backend/pkg/logger"
	"artlearn_backend/pkg/monitoring"
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:xp"

// LedgerService 经验值总账。对同一用户的并发加分全部落账（原子自增），
// 同一事件的重复投递只落账一次（流水表唯一索引）。
type LedgerService struct {
	LedgerRepo *repository.LedgerRepository
	UserRepo   *repository.UserRepository
	Redis      *redis.Client
	DB         *gorm.DB

	mu           sync.RWMutex
	gamification config.GamificationConfig
}

func NewLedgerService(
	ledgerRepo *repository.LedgerRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
	db *gorm.DB,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		LedgerRepo:   ledgerRepo,
		UserRepo:     userRepo,
		Redis:        rdb,
		DB:           db,
		gamification: cfg.Gamification,
	}
}

// UpdateConfig 配置热更新回调，运营改奖励数值不用重启。
func (s *LedgerService) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.gamification = cfg.Gamification
	s.mu.Unlock()
}

func (s *LedgerService) config() config.GamificationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gamification
}

// ApplyDelta 给用户加 amount 经验并重算等级。eventKey 相同的调用
// 只有第一次生效。流水和自增在一个事务里提交。
func (s *LedgerService) ApplyDelta(userID uint, amount int, reason model.XPReason, eventKey string) error {
	if amount == 0 {
		return nil
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.LedgerRepo.WithTx(tx)
		if err := repo.CreateEvent(&model.XPEvent{
			UserID:   userID,
			Amount:   amount,
			Reason:   reason,
			EventKey: eventKey,
		}); err != nil {
			return err
		}
		return repo.IncrementXP(userID, amount)
	})
	if errors.Is(err, util.ErrConflict) {
		// 事件已记过账
		return nil
	}
	if err != nil {
		return err
	}

	monitoring.XPAwarded.WithLabelValues(string(reason)).Add(float64(amount))

	// 等级从最新总账推导，只升不降
	xp, err := s.LedgerRepo.GetXP(userID)
	if err != nil {
		return err
	}
	cfg := s.config()
	if err := s.LedgerRepo.RaiseLevel(userID, cfg.LevelForXP(xp)); err != nil {
		return err
	}

	if s.Redis != nil {
		// 排行榜缓存，丢了也能从库里重建
		if err := s.Redis.ZIncrBy(context.Background(), leaderboardKey, float64(amount), strconv.FormatUint(uint64(userID), 10)).Err(); err != nil {
			logger.Log.Debug("leaderboard cache update failed", zap.Error(err))
		}
	}

	return nil
}

// Award 按配置的奖励数值加分。经验值是附赠，不是前置条件：
// 失败只告警，绝不让触发它的业务动作跟着失败。
func (s *LedgerService) Award(userID uint, reason model.XPReason, eventKey string) {
	cfg := s.config()
	amount := cfg.RewardFor(string(reason))
	if amount <= 0 {
		return
	}
	if err := s.ApplyDelta(userID, amount, reason, eventKey); err != nil {
		logger.Log.Warn("XP award failed",
			zap.Uint("userId", userID),
			zap.String("reason", string(reason)),
			zap.String("eventKey", eventKey),
			zap.Error(err))
	}
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Avatar string `json:"avatar,omitempty"`
}

// GetLeaderboard 排序优先取 Redis 有序集合，缓存为空或不可用时回退 SQL。
func (s *LedgerService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if entries, ok := s.leaderboardFromCache(limit); ok {
		return entries, nil
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   user.Name,
			XP:     user.XP,
			Level:  user.Level,
			Avatar: user.Avatar,
		}
	}

	return leaderboard, nil
}

func (s *LedgerService) leaderboardFromCache(limit int) ([]LeaderboardEntry, bool) {
	if s.Redis == nil {
		return nil, false
	}

	members, err := s.Redis.ZRevRange(context.Background(), leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil || len(members) == 0 {
		if err != nil {
			logger.Log.Debug("leaderboard cache read failed", zap.Error(err))
		}
		return nil, false
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}

	// 经验值和等级以库为准，ZSET 只决定顺序
	byID, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, false
	}

	leaderboard := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		user, ok := byID[id]
		if !ok {
			continue
		}
		leaderboard = append(leaderboard, LeaderboardEntry{
			Rank:   len(leaderboard) + 1,
			User:   user.Name,
			XP:     user.XP,
			Level:  user.Level,
			Avatar: user.Avatar,
		})
	}
	if len(leaderboard) == 0 {
		return nil, false
	}
	return leaderboard, true
}

type UserStats struct {
	TotalXP      int `json:"totalXp"`
	CurrentLevel int `json:"currentLevel"`
	NextLevelXP  int `json:"nextLevelXp"`
	Rank         int `json:"rank"`
}

// GetUserStats 排名优先走 Redis 有序集合，缓存不可用时退回 SQL。
func (s *LedgerService) GetUserStats(userID uint) (*UserStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	cfg := s.config()
	level := cfg.LevelForXP(user.XP)
	nextXP := cfg.NextLevelXP(user.XP)

	rank := 0
	if s.Redis != nil {
		if r, err := s.Redis.ZRevRank(context.Background(), leaderboardKey, strconv.FormatUint(uint64(userID), 10)).Result(); err == nil {
			rank = int(r) + 1
		}
	}
	if rank == 0 {
		var ahead int64
		if err := s.LedgerRepo.DB.Model(&model.User{}).Where("xp > ?", user.XP).Count(&ahead).Error; err != nil {
			return nil, err
		}
		rank = int(ahead) + 1
	}

	return &UserStats{
		TotalXP:      user.XP,
		CurrentLevel: level,
		NextLevelXP:  nextXP,
		Rank:         rank,
	}, nil
}
