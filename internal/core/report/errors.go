package report

import "errors"

var (
	ErrInvalidYear    = errors.New("report: invalid year")
	ErrInvalidQuarter = errors.New("report: quarter out of range")
)
