package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// CorpusRecord is one catalogued corpus: where its file lives and what it
// held when it was last compiled or loaded.
type CorpusRecord struct {
	gorm.Model
	Name         string `gorm:"type:varchar(255);uniqueIndex"`
	File         string `gorm:"type:text"`
	Segmenter    string `gorm:"type:varchar(32)"`
	Words        int64
	Occurrences  int64
	FailedWords  int64
	LastLoadedAt *time.Time
}

// Catalog persists registrations in a sqlite database so that separate runs
// of the compiler and the servers see the same corpora.
type Catalog struct {
	db *gorm.DB
}

// OpenCatalog opens, creating if needed, the catalog at dbPath.
func OpenCatalog(dbPath string) (*Catalog, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", dbPath, err)
	}
	if err := db.AutoMigrate(&CorpusRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog %s: %w", dbPath, err)
	}
	return &Catalog{db: db}, nil
}

// Put records or replaces the file registered under name.
func (c *Catalog) Put(name, file string) error {
	rec := CorpusRecord{Name: name, File: file}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"file", "updated_at"}),
	}).Create(&rec).Error
}

// RecordStats stores the aggregate counts of a compiled corpus.
func (c *Catalog) RecordStats(name string, report corpus.Report, loaded bool) error {
	updates := map[string]any{
		"segmenter":    report.Segmenter,
		"words":        report.TotalWords,
		"occurrences":  report.TotalOccurrences,
		"failed_words": report.TotalWordsWithNoDecomp,
	}
	if loaded {
		updates["last_loaded_at"] = time.Now()
	}
	return c.db.Model(&CorpusRecord{}).Where("name = ?", name).Updates(updates).Error
}

// Get returns the record for name, or nil when there is none.
func (c *Catalog) Get(name string) (*CorpusRecord, error) {
	var rec CorpusRecord
	err := c.db.Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every record ordered by name.
func (c *Catalog) List() ([]CorpusRecord, error) {
	var recs []CorpusRecord
	if err := c.db.Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Remove deletes the record for name.
func (c *Catalog) Remove(name string) error {
	return c.db.Unscoped().Where("name = ?", name).Delete(&CorpusRecord{}).Error
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
