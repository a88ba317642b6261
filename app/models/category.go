package models

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/resource"
	"github.com/shashiranjanraj/stockpile/pkg/slug"
)

// Category groups sub-categories and items. Slug follows name.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null;uniqueIndex"`
	Slug string `gorm:"size:50;not null;uniqueIndex"`
}

func (c *Category) BeforeSave(*gorm.DB) error {
	c.Slug = slug.Make(c.Name)
	return nil
}

func (c Category) ResourceName() string { return "inventory.category" }
func (c Category) PrimaryKey() uint     { return c.ID }

func (c Category) ToArray() resource.Map {
	return resource.Map{
		"name": c.Name,
		"slug": c.Slug,
	}
}

// SubCategory belongs to exactly one Category.
type SubCategory struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:50;not null;uniqueIndex"`
	Slug       string `gorm:"size:50;not null;uniqueIndex"`
	CategoryID uint   `gorm:"not null;index"`
}

func (s *SubCategory) BeforeSave(*gorm.DB) error {
	s.Slug = slug.Make(s.Name)
	return nil
}

func (s SubCategory) ResourceName() string { return "inventory.subcategory" }
func (s SubCategory) PrimaryKey() uint     { return s.ID }

func (s SubCategory) ToArray() resource.Map {
	return resource.Map{
		"name":     s.Name,
		"slug":     s.Slug,
		"category": s.CategoryID,
	}
}
