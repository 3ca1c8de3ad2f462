package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXPWithStep(t *testing.T) {
	g := GamificationConfig{LevelStep: 200}

	assert.Equal(t, 1, g.LevelForXP(0))
	assert.Equal(t, 1, g.LevelForXP(199))
	assert.Equal(t, 2, g.LevelForXP(200))
	assert.Equal(t, 3, g.LevelForXP(450))
}

func TestLevelForXPDefaultStep(t *testing.T) {
	var g GamificationConfig

	assert.Equal(t, 1, g.LevelForXP(0))
	assert.Equal(t, 2, g.LevelForXP(200))
}

func TestLevelForXPWithThresholds(t *testing.T) {
	g := GamificationConfig{LevelThresholds: []int{100, 300, 600}}

	assert.Equal(t, 1, g.LevelForXP(0))
	assert.Equal(t, 1, g.LevelForXP(99))
	assert.Equal(t, 2, g.LevelForXP(100))
	assert.Equal(t, 3, g.LevelForXP(300))
	assert.Equal(t, 4, g.LevelForXP(600))
	assert.Equal(t, 4, g.LevelForXP(10000))
}

func TestLevelForXPMonotonic(t *testing.T) {
	curves := []GamificationConfig{
		{LevelStep: 200},
		{LevelThresholds: []int{100, 300, 600}},
	}
	for _, g := range curves {
		prev := 0
		for xp := 0; xp <= 1000; xp += 50 {
			level := g.LevelForXP(xp)
			assert.GreaterOrEqual(t, level, prev, "经验越高等级不能更低")
			prev = level
		}
	}
}

func TestNextLevelXP(t *testing.T) {
	step := GamificationConfig{LevelStep: 200}
	assert.Equal(t, 200, step.NextLevelXP(0))
	assert.Equal(t, 200, step.NextLevelXP(199))
	assert.Equal(t, 400, step.NextLevelXP(200))

	thresholds := GamificationConfig{LevelThresholds: []int{100, 300}}
	assert.Equal(t, 100, thresholds.NextLevelXP(0))
	assert.Equal(t, 300, thresholds.NextLevelXP(100))
	assert.Equal(t, 0, thresholds.NextLevelXP(300), "已满级")
}

func TestRewardFor(t *testing.T) {
	g := GamificationConfig{Rewards: map[string]int{"artwork_created": 50}}

	assert.Equal(t, 50, g.RewardFor("artwork_created"))
	assert.Equal(t, 0, g.RewardFor("unknown"))

	var empty GamificationConfig
	assert.Equal(t, 0, empty.RewardFor("artwork_created"))
}
