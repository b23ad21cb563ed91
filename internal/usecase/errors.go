package usecase

import (
	"errors"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPersistenceConflict = errors.New("persistence conflict")
	ErrPartialBackfill     = errors.New("partial backfill failure")

	ErrInvalidSeasonFormat = season.ErrInvalidSeasonFormat
)
