package models

import (
	"time"

	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// Supplier is created on its first supply, keyed by email.
type Supplier struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:100;not null"`
	Email string `gorm:"size:254;not null;uniqueIndex"`
	Phone string `gorm:"size:32;index"`
}

func (s Supplier) ResourceName() string { return "inventory.supplier" }
func (s Supplier) PrimaryKey() uint     { return s.ID }

func (s Supplier) ToArray() resource.Map {
	return resource.Map{
		"name":  s.Name,
		"email": s.Email,
		"phone": s.Phone,
	}
}

// Supply records units of an item handed to a supplier.
type Supply struct {
	ID          uint      `gorm:"primaryKey"`
	ItemID      uint      `gorm:"not null;index"`
	SupplierID  uint      `gorm:"not null;index"`
	QtySupplied int       `gorm:"not null;default:0"`
	Timestamp   time.Time `gorm:"autoUpdateTime"`
}

func (s Supply) ResourceName() string { return "inventory.supply" }
func (s Supply) PrimaryKey() uint     { return s.ID }

func (s Supply) ToArray() resource.Map {
	return resource.Map{
		"item":         s.ItemID,
		"supplier":     s.SupplierID,
		"qty_supplied": s.QtySupplied,
		"timestamp":    s.Timestamp,
	}
}
