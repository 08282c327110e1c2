// Package repository provides typed CRUD over the relational store. All
// queries honor soft deletion: a soft-deleted row is invisible to every
// method except the purge helpers.
package repository

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an id does not resolve, including when the
// row exists but is soft-deleted.
var ErrNotFound = errors.New("not found")

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// PublicQuery carries the filter, sort, and pagination options for public
// listings. Zero values mean "no filter".
type PublicQuery struct {
	Search         string
	Category       string
	Status         string
	EntrepreneurID int64
	ExcludeID      int64
	MinPrice       *float64
	MaxPrice       *float64
	MinStock       *int
	Featured       *bool
	SortBy         string
	SortOrder      string
	Page           int
	PerPage        int
}

func (q PublicQuery) page() (page, perPage int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	perPage = q.PerPage
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage
}

// orderClause maps the requested sort key through the allow-list. Unknown
// keys silently fall back to the default ordering, never an error.
func orderClause(allowed map[string]string, sortBy, sortOrder string) string {
	col, ok := allowed[sortBy]
	if !ok || col == "" {
		return "created_at DESC"
	}
	order := "ASC"
	if strings.EqualFold(sortOrder, "desc") || sortOrder == "" {
		order = "DESC"
	}
	return col + " " + order
}

// searchClause applies a case-insensitive substring match over name and
// description, dialect-aware like the rest of the codebase.
func searchClause(db *gorm.DB, nameCol, descCol, q string) *gorm.DB {
	if strings.EqualFold(db.Dialector.Name(), "postgres") {
		return db.Where(nameCol+" ILIKE ? OR "+descCol+" ILIKE ?", "%"+q+"%", "%"+q+"%")
	}
	lq := "%" + strings.ToLower(q) + "%"
	return db.Where("LOWER("+nameCol+") LIKE ? OR LOWER("+descCol+") LIKE ?", lq, lq)
}
