package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-dashboard/internal/models"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB wraps an existing gorm.DB instance.
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.SearchRecord{},
		&models.DeleteLog{},
	)
}

// SaveListingSearch inserts a new listing search record.
func (gdb *GormDB) SaveListingSearch(rec *models.SearchRecord) error {
	rec.Kind = models.SearchKindListings
	stampTTL(rec)
	return gdb.db.Create(rec).Error
}

// SavePropertySearch upserts a property search record by archive file
// name: re-running the same property on the same day replaces the
// document instead of stacking duplicates.
func (gdb *GormDB) SavePropertySearch(rec *models.SearchRecord) error {
	rec.Kind = models.SearchKindProperty
	stampTTL(rec)

	var existing models.SearchRecord
	result := gdb.db.Where("file = ?", rec.File).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		return gdb.db.Create(rec).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Replace the document but keep its identity and creation time.
	rec.ID = existing.ID
	rec.SearchID = existing.SearchID
	rec.CreatedAt = existing.CreatedAt
	return gdb.db.Save(rec).Error
}

func (gdb *GormDB) ListRecords(kind models.SearchKind, limit int) ([]models.SearchRecord, error) {
	var records []models.SearchRecord
	query := gdb.db.Order("created_at DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

func (gdb *GormDB) FindByFile(file string) (*models.SearchRecord, error) {
	var rec models.SearchRecord
	if err := gdb.db.Where("file = ?", file).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (gdb *GormDB) FindExpired(now time.Time) ([]models.SearchRecord, error) {
	var records []models.SearchRecord
	err := gdb.db.Where("expire_at < ?", now).Order("expire_at ASC").Find(&records).Error
	return records, err
}

func (gdb *GormDB) DeleteRecord(id uint) error {
	return gdb.db.Delete(&models.SearchRecord{}, id).Error
}

func (gdb *GormDB) LogDeletion(entry *models.DeleteLog) error {
	return gdb.db.Create(entry).Error
}

// stampTTL fills creation and expiry timestamps; archived searches live
// for 24 hours unless the caller already set a window.
func stampTTL(rec *models.SearchRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.ExpireAt.IsZero() {
		rec.ExpireAt = rec.CreatedAt.Add(24 * time.Hour)
	}
}
