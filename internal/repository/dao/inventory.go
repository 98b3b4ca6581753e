package dao

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const mysqlDuplicateEntry = 1062

var (
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrSkuCodeExists     = errors.New("sku code already exists")
)

type Inventory struct {
	ID        uint   `gorm:"primaryKey"`
	SkuCode   string `gorm:"size:255;not null;uniqueIndex:uni_t_inventory_sku_code"`
	Quantity  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Inventory) TableName() string {
	return "t_inventory"
}

type InventoryDAO struct {
	db *gorm.DB
}

func NewInventoryDAO(db *gorm.DB) *InventoryDAO {
	return &InventoryDAO{
		db: db,
	}
}

func (d *InventoryDAO) FindByID(ctx context.Context, id uint) (Inventory, error) {
	var inv Inventory

	result := d.db.WithContext(ctx).First(&inv, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Inventory{}, ErrInventoryNotFound
		}

		return Inventory{}, result.Error
	}

	return inv, nil
}

func (d *InventoryDAO) FindBySkuCode(ctx context.Context, skuCode string) (Inventory, error) {
	var inv Inventory

	result := d.db.WithContext(ctx).First(&inv, "sku_code = ?", skuCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Inventory{}, ErrInventoryNotFound
		}

		return Inventory{}, result.Error
	}

	return inv, nil
}

// ExistsWithQuantityAtLeast evaluates existence and threshold in one statement.
func (d *InventoryDAO) ExistsWithQuantityAtLeast(ctx context.Context, skuCode string, minQuantity int) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Inventory{}).
		Where("sku_code = ? AND quantity >= ?", skuCode, minQuantity).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *InventoryDAO) FindAll(ctx context.Context) ([]Inventory, error) {
	var inventories []Inventory

	result := d.db.WithContext(ctx).Order("id").Find(&inventories)
	if result.Error != nil {
		return nil, result.Error
	}

	return inventories, nil
}

// AddQuantity inserts a row for skuCode or adds quantity to the existing one
// with a single upsert statement. The row is read back in the same
// transaction, so the returned quantity is exactly the one this call produced.
func (d *InventoryDAO) AddQuantity(ctx context.Context, skuCode string, quantity int) (Inventory, error) {
	var saved Inventory

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := Inventory{
			SkuCode:  skuCode,
			Quantity: quantity,
		}

		result := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku_code"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr(d.incrementExpr()),
				"updated_at": time.Now(),
			}),
		}).Create(&row)
		if result.Error != nil {
			return result.Error
		}

		return tx.First(&saved, "sku_code = ?", skuCode).Error
	})
	if err != nil {
		return Inventory{}, err
	}

	return saved, nil
}

// Save inserts inv when it has no ID and overwrites sku_code and quantity
// otherwise. An ID that no longer exists is reported as not found rather than
// re-created.
func (d *InventoryDAO) Save(ctx context.Context, inv Inventory) (Inventory, error) {
	if inv.ID == 0 {
		result := d.db.WithContext(ctx).Create(&inv)
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return Inventory{}, ErrSkuCodeExists
			}

			return Inventory{}, result.Error
		}

		return inv, nil
	}

	result := d.db.WithContext(ctx).
		Model(&Inventory{}).
		Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"sku_code":   inv.SkuCode,
			"quantity":   inv.Quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Inventory{}, ErrSkuCodeExists
		}

		return Inventory{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Inventory{}, ErrInventoryNotFound
	}

	return d.FindByID(ctx, inv.ID)
}

// DeleteByID succeeds whether or not the row exists.
func (d *InventoryDAO) DeleteByID(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&Inventory{}, id).Error
}

func (d *InventoryDAO) incrementExpr() string {
	if d.db.Dialector.Name() == "mysql" {
		return "quantity + VALUES(quantity)"
	}

	return "t_inventory.quantity + excluded.quantity"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}

	return false
}
