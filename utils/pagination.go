package utils

import (
	"gorm.io/gorm"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// Page is an offset/limit window.
type Page struct {
	Skip  int `form:"skip,default=0" binding:"gte=0"`
	Limit int `form:"limit,default=100" binding:"gte=1,lte=100"`
}

// Normalize clamps the window to sane bounds.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	} else if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Paging applies the window as a gorm scope.
func Paging(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p = p.Normalize()
		return db.Offset(p.Skip).Limit(p.Limit)
	}
}
