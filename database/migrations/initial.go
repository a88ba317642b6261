package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_categories_table", &createTable{model: &models.Category{}, table: "categories"})
	migration.Register("20260301000001_create_sub_categories_table", &createTable{model: &models.SubCategory{}, table: "sub_categories"})
	migration.Register("20260301000002_create_items_table", &createTable{model: &models.Item{}, table: "items"})
	migration.Register("20260301000003_create_stocks_table", &createTable{model: &models.Stock{}, table: "stocks"})
	migration.Register("20260301000004_create_suppliers_table", &createTable{model: &models.Supplier{}, table: "suppliers"})
	migration.Register("20260301000005_create_supplies_table", &createTable{model: &models.Supply{}, table: "supplies"})
	migration.Register("20260301000006_create_users_table", &createTable{model: &models.User{}, table: "users"})
	migration.Register("20260301000007_create_tokens_table", &createTable{model: &models.Token{}, table: "tokens"})
	migration.Register("20260315000000_add_stocks_qty_check", &stockQtyCheck{})
}

// createTable creates one model's table and drops it on rollback.
type createTable struct {
	model any
	table string
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.table)
}

// stockQtyCheck adds a non-negative quantity constraint where the dialect
// can alter one in place. sqlite cannot add a CHECK to an existing table, so
// there the conditional decrement in the supply service is the only guard.
type stockQtyCheck struct{}

func (m *stockQtyCheck) Up(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return db.Exec("ALTER TABLE stocks ADD CONSTRAINT chk_stocks_qty_in_stock CHECK (qty_in_stock >= 0)").Error
}

func (m *stockQtyCheck) Down(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	if db.Dialector.Name() == "mysql" {
		return db.Exec("ALTER TABLE stocks DROP CHECK chk_stocks_qty_in_stock").Error
	}
	return db.Exec("ALTER TABLE stocks DROP CONSTRAINT chk_stocks_qty_in_stock").Error
}
