package domain

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MinOpenWindowMinutes      = 60 // unless open == close (24-hour sentinel)
	MaxNotesLength            = 500
)

// Pagination limits
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxSkip         = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
