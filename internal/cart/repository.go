package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/shopexplorer/storefront/pkg/errors"
	"github.com/shopexplorer/storefront/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storageEntry emulates the browser's single-key local storage: one row per
// key holding the JSON-serialized cart.
type storageEntry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     []byte
	UpdatedAt time.Time
}

func (storageEntry) TableName() string {
	return "storage_entries"
}

// GormRepository persists the cart under a single storage key.
type GormRepository struct {
	db  *gorm.DB
	key string
}

// NewGormRepository migrates the storage table and binds the repository to
// its storage key.
func NewGormRepository(db *gorm.DB, key string) (*GormRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("cart repository db required")
	}
	if key == "" {
		return nil, fmt.Errorf("cart storage key required")
	}
	if err := db.AutoMigrate(&storageEntry{}); err != nil {
		return nil, fmt.Errorf("migrating storage table: %w", err)
	}
	return &GormRepository{db: db, key: key}, nil
}

// Load reads and decodes the persisted cart. A missing row means an empty
// cart; an unreadable or undecodable row is a storage error the caller is
// expected to degrade from.
func (r *GormRepository) Load(ctx context.Context) ([]types.CartItem, error) {
	var entry storageEntry
	err := r.db.WithContext(ctx).First(&entry, "key = ?", r.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reading cart state")
	}

	var items []types.CartItem
	if err := json.Unmarshal(entry.Value, &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "decoding cart state")
	}
	return items, nil
}

// Save serializes the items and overwrites the row for this key.
func (r *GormRepository) Save(ctx context.Context, items []types.CartItem) error {
	if items == nil {
		items = []types.CartItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "encoding cart state")
	}

	entry := storageEntry{Key: r.key, Value: payload, UpdatedAt: time.Now().UTC()}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "writing cart state")
	}
	return nil
}
