package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/resource"
	"github.com/shashiranjanraj/stockpile/pkg/slug"
)

// Item is a catalogue entry. Its slug is derived from the SKU on every save.
type Item struct {
	ID            uint      `gorm:"primaryKey"`
	Name          string    `gorm:"size:50;not null"`
	SKU           string    `gorm:"column:sku;size:50;not null;uniqueIndex"`
	Slug          string    `gorm:"size:50;not null;uniqueIndex"`
	Price         int       `gorm:"not null;default:0;index"`
	Description   string    `gorm:"type:text"`
	CategoryID    uint      `gorm:"not null;index"`
	SubCategoryID uint      `gorm:"not null;index"`
	RecordedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (i *Item) BeforeSave(*gorm.DB) error {
	i.Slug = slug.Make(i.SKU)
	return nil
}

func (i Item) ResourceName() string { return "inventory.item" }
func (i Item) PrimaryKey() uint     { return i.ID }

func (i Item) ToArray() resource.Map {
	return resource.Map{
		"name":         i.Name,
		"sku":          i.SKU,
		"slug":         i.Slug,
		"price":        i.Price,
		"description":  i.Description,
		"category":     i.CategoryID,
		"sub_category": i.SubCategoryID,
		"recordedAt":   i.RecordedAt,
		"updatedAt":    i.UpdatedAt,
	}
}

// Stock is the on-hand quantity of one item.
type Stock struct {
	ID          uint      `gorm:"primaryKey"`
	ItemID      uint      `gorm:"not null;uniqueIndex"`
	QtyInStock  int       `gorm:"not null;default:0;index"`
	LastUpdated time.Time `gorm:"autoUpdateTime"`
}

func (s Stock) ResourceName() string { return "inventory.stock" }
func (s Stock) PrimaryKey() uint     { return s.ID }

func (s Stock) ToArray() resource.Map {
	return resource.Map{
		"item":         s.ItemID,
		"qty_in_stock": s.QtyInStock,
		"last_updated": s.LastUpdated,
	}
}
