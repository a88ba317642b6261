// Package repositories holds the store queries for each aggregate. Every
// repository wraps an injected *gorm.DB; WithTx rebinds it to a transaction.
package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/orm"
)

type base struct {
	db *gorm.DB
}

func (b base) q(ctx context.Context) *orm.Query {
	return orm.New(b.db).WithContext(ctx)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
