package database

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver

	"kitchensim/internal/catalog"
	"kitchensim/internal/evaluation"
	"kitchensim/internal/logger"
	"kitchensim/internal/models"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store persists sessions, action logs, scores and the store catalog
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the database. SQLite is limited to one connection so an
// in-memory database is shared by every query.
func Open(driver, dsn string, log *logger.Logger) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.DB().SetMaxOpenConns(1)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log}, nil
}

// Migrate creates or updates every table
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.GameSessionRecord{},
		&models.ActionLogRecord{},
		&models.GameScoreRecord{},
		&models.RecipeRecord{},
		&models.IngredientRecord{},
		&models.SeasoningRecord{},
	).Error
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession stores the header of a new session
func (s *Store) CreateSession(sessionID, userID, storeID string, level models.GameLevel, target int, start time.Time) error {
	rec := models.GameSessionRecord{
		SessionID:        sessionID,
		UserID:           userID,
		StoreID:          storeID,
		Level:            string(level),
		TotalMenusTarget: target,
		StartTime:        start,
		Status:           models.SessionStatusInProgress,
	}
	return s.db.Create(&rec).Error
}

// RecordAction appends one action log line. Failures are logged, not
// returned, so a slow or broken database never blocks play.
func (s *Store) RecordAction(sessionID string, entry models.ActionLogEntry) {
	if err := s.db.Create(models.NewActionLogRecord(sessionID, entry)).Error; err != nil {
		s.log.Error("saving action %s for session %s: %v", entry.ActionType, sessionID, err)
	}
}

// ActionLogs returns a session's action log in insertion order
func (s *Store) ActionLogs(sessionID string) ([]models.ActionLogEntry, error) {
	var recs []models.ActionLogRecord
	if err := s.db.Where("session_id = ?", sessionID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	entries := make([]models.ActionLogEntry, 0, len(recs))
	for i := range recs {
		entries = append(entries, recs[i].Entry())
	}
	return entries, nil
}

// FinishSession marks a session completed and stores its score in one
// transaction.
func (s *Store) FinishSession(sessionID string, score evaluation.SessionScore, end time.Time) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	res := tx.Model(&models.GameSessionRecord{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":          models.SessionStatusCompleted,
			"completed_menus": score.CompletedOrders,
			"end_time":        end,
		})
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("session %s: %w", sessionID, gorm.ErrRecordNotFound)
	}

	rec := models.GameScoreRecord{
		SessionID:                 sessionID,
		RecipeAccuracyScore:       score.RecipeAccuracyScore,
		SpeedScore:                score.SpeedScore,
		BurnerUsageScore:          score.BurnerUsageScore,
		TotalScore:                score.TotalScore,
		TotalElapsedTimeSeconds:   score.ElapsedSeconds,
		AverageBurnerUsagePercent: score.BurnerUsageScore,
	}
	if err := tx.Create(&rec).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Session returns a stored session header
func (s *Store) Session(sessionID string) (*models.GameSessionRecord, error) {
	var rec models.GameSessionRecord
	if err := s.db.Where("session_id = ?", sessionID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Score returns the stored final score of a session
func (s *Store) Score(sessionID string) (*models.GameScoreRecord, error) {
	var rec models.GameScoreRecord
	if err := s.db.Where("session_id = ?", sessionID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveCatalog replaces a store's recipes, ingredients and seasonings
func (s *Store) SaveCatalog(storeID string, cat *catalog.Catalog) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	for _, model := range []interface{}{&models.RecipeRecord{}, &models.IngredientRecord{}, &models.SeasoningRecord{}} {
		if err := tx.Unscoped().Where("store_id = ?", storeID).Delete(model).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	for _, r := range cat.Recipes() {
		rec := models.RecipeRecord{StoreID: storeID, RecipeID: r.ID, MenuName: r.MenuName, Category: r.Category, Steps: r.Steps}
		if err := tx.Create(&rec).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, i := range cat.Ingredients() {
		rec := models.IngredientRecord{
			StoreID:        storeID,
			SKU:            i.SKU,
			Name:           i.Name,
			Category:       string(i.Category),
			StandardAmount: i.StandardAmount,
			StandardUnit:   i.StandardUnit,
		}
		if err := tx.Create(&rec).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, sz := range cat.Seasonings() {
		rec := models.SeasoningRecord{StoreID: storeID, Name: sz.Name, BaseUnit: sz.BaseUnit, PositionCode: sz.PositionCode}
		if err := tx.Create(&rec).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// LoadCatalog fills cat with a store's stored catalog. Malformed recipes are
// skipped and logged.
func (s *Store) LoadCatalog(storeID string, cat *catalog.Catalog) (catalog.LoadStats, error) {
	var stats catalog.LoadStats

	var ingredients []models.IngredientRecord
	if err := s.db.Where("store_id = ?", storeID).Find(&ingredients).Error; err != nil {
		return stats, err
	}
	for _, rec := range ingredients {
		cat.AddIngredient(models.Ingredient{
			SKU:            rec.SKU,
			Name:           rec.Name,
			Category:       models.ParseIngredientCategory(rec.Category),
			StandardAmount: rec.StandardAmount,
			StandardUnit:   rec.StandardUnit,
		})
		stats.Ingredients++
	}

	var seasonings []models.SeasoningRecord
	if err := s.db.Where("store_id = ?", storeID).Find(&seasonings).Error; err != nil {
		return stats, err
	}
	for _, rec := range seasonings {
		cat.AddSeasoning(models.Seasoning{Name: rec.Name, BaseUnit: rec.BaseUnit, PositionCode: rec.PositionCode})
		stats.Seasonings++
	}

	var recipes []models.RecipeRecord
	if err := s.db.Where("store_id = ?", storeID).Find(&recipes).Error; err != nil {
		return stats, err
	}
	for i := range recipes {
		if err := cat.AddRecipe(recipes[i].Recipe()); err != nil {
			s.log.Warn("skipping stored recipe %s: %v", recipes[i].MenuName, err)
			continue
		}
		stats.Recipes++
	}
	return stats, nil
}
