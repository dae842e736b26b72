package dto

import (
	"errors"
)

var (
	ErrUpstreamMissing = errors.New("errUpstreamFileMissing")
	ErrEmptyDataset    = errors.New("errEmptyDataset")
	ErrKeyUnparseable  = errors.New("errKeyColumnUnparseable")
)
