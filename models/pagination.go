package models

import (
	"math"
	"strconv"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

type PageRequest struct {
	Page  int64
	Limit int64
}

// ParsePage reads page/limit query values; anything missing, malformed or
// below 1 falls back to the defaults. limit is capped at MaxLimit.
func ParsePage(page, limit string) PageRequest {
	req := PageRequest{
		Page:  parsePositive(page, DefaultPage),
		Limit: parsePositive(limit, DefaultLimit),
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}
	return req
}

func parsePositive(s string, def int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip is (page-1)*limit, saturating at math.MaxInt64.
func (p PageRequest) Skip() int64 {
	if p.Page <= 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int64) int64 {
	if limit < 1 || total < 1 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

type AssetPage struct {
	Assets     []Asset `json:"assets"`
	Total      int64   `json:"total"`
	Page       int64   `json:"page"`
	Limit      int64   `json:"limit"`
	TotalPages int64   `json:"totalPages"`
}

func NewAssetPage(assets []Asset, total int64, req PageRequest) AssetPage {
	if assets == nil {
		assets = []Asset{}
	}
	return AssetPage{
		Assets:     assets,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
	}
}
