package cart

import (
	"context"
	"time"

	"github.com/avignatattva/storefront/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage keeps carts in the cart_snapshots table
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (g *GormStorage) Load(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	var snap domain.CartSnapshot
	err := g.db.WithContext(ctx).Where("id = ?", cartID).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	} else if err != nil {
		return nil, err
	}
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(snap.Items), &items); err != nil {
		return nil, errors.Wrapf(err, "decode cart %s", cartID)
	}
	return items, nil
}

func (g *GormStorage) Save(ctx context.Context, cartID string, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	now := time.Now()
	snap := domain.CartSnapshot{ID: cartID, Items: string(data), CreatedAt: now, UpdatedAt: now}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&snap).Error
}

func (g *GormStorage) Delete(ctx context.Context, cartID string) error {
	return g.db.WithContext(ctx).Where("id = ?", cartID).Delete(&domain.CartSnapshot{}).Error
}

func (g *GormStorage) Purge(ctx context.Context, before time.Time, keep []string) (int, error) {
	tx := g.db.WithContext(ctx).Where("updated_at < ?", before)
	if len(keep) > 0 {
		tx = tx.Where("id NOT IN ?", keep)
	}
	res := tx.Delete(&domain.CartSnapshot{})
	return int(res.RowsAffected), res.Error
}

// Close leaves the connection to its owner
func (g *GormStorage) Close() error {
	return nil
}
