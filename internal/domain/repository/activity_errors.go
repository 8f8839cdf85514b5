package repository

import "errors"

var (
	// ErrActivityNotActive означает, что активность не находится в активном состоянии.
	ErrActivityNotActive = errors.New("activity is not active")
	// ErrActivityAlreadyActive означает, что активность уже активирована.
	ErrActivityAlreadyActive = errors.New("activity is already active")
	// ErrOverlappingLevelRange означает пересечение диапазона уровней с существующим правилом.
	ErrOverlappingLevelRange = errors.New("level range overlaps an existing rule")
)
