package models

import (
	"strings"

	"github.com/dshank05/nextjs-sub001/config"
	"gorm.io/gorm"
)

// ListParams is the common query of every list endpoint.
type ListParams struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (p *ListParams) normalize() {
	p.Search = strings.TrimSpace(p.Search)
	if p.Limit <= 0 {
		p.Limit = config.SearchLimit
	}
	if p.Limit > config.PageLimit {
		p.Limit = config.PageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

type Page[T any] struct {
	Items  []*T  `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func (p *Page[T]) HasMore() bool {
	return int64(p.Offset+len(p.Items)) < p.Total
}

// FetchPage counts the filtered query, then reads one page of it.
func FetchPage[T any](dbCtx *gorm.DB, params ListParams, orderBy string) (*Page[T], error) {
	params.normalize()
	var total int64
	if err := dbCtx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	page := &Page[T]{Limit: params.Limit, Offset: params.Offset, Items: []*T{}}
	page.Total = total
	if total == 0 {
		return page, nil
	}
	err := dbCtx.Session(&gorm.Session{}).
		Order(orderBy).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&page.Items).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
