package models

import (
	"fmt"
	"strings"
	"time"
)

// GameLevel is the difficulty tier chosen for a session
type GameLevel string

const (
	LevelBeginner     GameLevel = "BEGINNER"
	LevelIntermediate GameLevel = "INTERMEDIATE"
	LevelAdvanced     GameLevel = "ADVANCED"
)

// TargetMenus is the number of served orders that ends a session
const TargetMenus = 50

// SpeedBudgetPerOrder is the time allowance per served order used by the speed score
const SpeedBudgetPerOrder = 120 * time.Second

// ParseGameLevel parses a level name, case-insensitively
func ParseGameLevel(s string) (GameLevel, error) {
	switch l := GameLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l, nil
	case "":
		return LevelBeginner, nil
	default:
		return "", fmt.Errorf("unknown game level: %s", s)
	}
}

// SpawnInterval returns how often a new batch of orders arrives
func (l GameLevel) SpawnInterval() time.Duration {
	switch l {
	case LevelIntermediate:
		return 20 * time.Second
	case LevelAdvanced:
		return 15 * time.Second
	default:
		return 30 * time.Second
	}
}

// BatchSize returns how many orders arrive per spawn
func (l GameLevel) BatchSize() int {
	switch l {
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 1
	}
}
