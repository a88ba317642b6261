package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/metrics"
)

const startedAtKey = "stockpile:started_at"

// registerMetrics times every create/query/update/delete/row/raw statement
// into metrics.DBQueryDuration.
func registerMetrics(db *gorm.DB) error {
	type hook struct {
		op       string
		register func(name string, before, after func(*gorm.DB)) error
	}

	cb := db.Callback()
	hooks := []hook{
		{"insert", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(n+":after", a)
		}},
		{"select", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(n+":after", a)
		}},
		{"update", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(n+":after", a)
		}},
		{"delete", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(n+":after", a)
		}},
		{"row", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register(n+":after", a)
		}},
		{"raw", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register(n+":after", a)
		}},
	}

	for _, h := range hooks {
		op := h.op
		before := func(tx *gorm.DB) { tx.InstanceSet(startedAtKey, time.Now()) }
		after := func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			if start, ok := v.(time.Time); ok {
				metrics.ObserveDBQuery(op, start)
			}
		}
		if err := h.register("stockpile:metrics:"+op, before, after); err != nil {
			return err
		}
	}
	return nil
}
