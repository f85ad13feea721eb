package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// PostsPerPage is the page size of every post listing.
const PostsPerPage = 10

// Page is one slice of an ordered record sequence plus navigation metadata.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	NumPages    int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NumPages returns how many pages total records span. An empty sequence still has one page.
func NumPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PostsPerPage
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// ResolvePage maps a raw ?page= value onto [1, numPages].
// Missing or non-integer values select the first page; out-of-range numbers select the last one,
// including numbers too large for an int.
func ResolvePage(raw string, numPages int) int {
	if numPages < 1 {
		numPages = 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return numPages
	}
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

func newPage[T any](total int64, pageSize int, raw string) Page[T] {
	if pageSize <= 0 {
		pageSize = PostsPerPage
	}
	numPages := NumPages(total, pageSize)
	number := ResolvePage(raw, numPages)
	return Page[T]{
		Items:       []T{},
		Number:      number,
		PageSize:    pageSize,
		Total:       total,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

// offset is the index of the first record on the page.
func (p Page[T]) offset() int {
	return (p.Number - 1) * p.PageSize
}

// Paginate returns the requested page of items.
func Paginate[T any](items []T, pageSize int, raw string) Page[T] {
	page := newPage[T](int64(len(items)), pageSize, raw)
	start := page.offset()
	if start >= len(items) {
		return page
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	page.Items = items[start:end]
	return page
}

// PaginateQuery counts the rows matched by query and loads the requested page.
// scopes are applied to the page load only (preloads, for instance).
func PaginateQuery[T any](query *gorm.DB, pageSize int, raw string, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count page rows: %w", err)
	}
	page := newPage[T](total, pageSize, raw)
	if total == 0 {
		return page, nil
	}
	if err := query.Session(&gorm.Session{}).
		Scopes(scopes...).
		Offset(page.offset()).
		Limit(page.PageSize).
		Find(&page.Items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("load page %d: %w", page.Number, err)
	}
	return page, nil
}
