package storage

import (
	"context"
	"sort"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

type brandRow struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name string
}

func (brandRow) TableName() string { return "brands" }

type brandPriceRow struct {
	BrandID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	Category string `gorm:"primaryKey"`
	Price    int64
}

func (brandPriceRow) TableName() string { return "brand_prices" }

// SQLite is a gorm-backed Repo.
type SQLite struct {
	db *gorm.DB

	mu      sync.Mutex
	lastSeq map[uint64]uint64
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&brandRow{}, &brandPriceRow{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db, lastSeq: make(map[uint64]uint64)}, nil
}

// LoadAll returns every stored brand ordered by id.
func (s *SQLite) LoadAll(ctx context.Context) ([]model.Brand, error) {
	var rows []brandRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	var priceRows []brandPriceRow
	if err := s.db.WithContext(ctx).Find(&priceRows).Error; err != nil {
		return nil, err
	}
	prices := make(map[uint64]map[model.CategoryID]int64)
	for _, pr := range priceRows {
		m, ok := prices[pr.BrandID]
		if !ok {
			m = make(map[model.CategoryID]int64)
			prices[pr.BrandID] = m
		}
		m[model.CategoryID(pr.Category)] = pr.Price
	}
	out := make([]model.Brand, 0, len(rows))
	for _, r := range rows {
		p := prices[r.ID]
		if p == nil {
			p = make(map[model.CategoryID]int64)
		}
		out = append(out, model.Brand{ID: r.ID, Name: r.Name, Prices: p})
	}
	return out, nil
}

// Save upserts the brand and replaces its price rows in one transaction.
// Stale sequences are dropped.
func (s *SQLite) Save(ctx context.Context, b model.Brand, seq uint64) error {
	if s.stale(b.ID, seq) {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&brandRow{ID: b.ID, Name: b.Name}).Error; err != nil {
			return err
		}
		if err := tx.Where("brand_id = ?", b.ID).Delete(&brandPriceRow{}).Error; err != nil {
			return err
		}
		if len(b.Prices) == 0 {
			return nil
		}
		rows := make([]brandPriceRow, 0, len(b.Prices))
		for cat, price := range b.Prices {
			rows = append(rows, brandPriceRow{BrandID: b.ID, Category: string(cat), Price: price})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
		return tx.Create(&rows).Error
	})
}

// Delete removes the brand and its price rows. Stale sequences are dropped.
func (s *SQLite) Delete(ctx context.Context, id uint64, seq uint64) error {
	if s.stale(id, seq) {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("brand_id = ?", id).Delete(&brandPriceRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&brandRow{}, id).Error
	})
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// stale records seq for the brand and reports whether an equal-or-newer
// write has already been applied.
func (s *SQLite) stale(id, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastSeq[id]; ok && seq <= last {
		return true
	}
	s.lastSeq[id] = seq
	return false
}
