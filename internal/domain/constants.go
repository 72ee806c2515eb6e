package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultBusinessStart       = "09:00"
	DefaultBusinessEnd         = "18:00"
	DefaultTimezone            = "UTC"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480  // 8 hours
	MaxDurationMinutes     = 1440 // 24 hours, bounds the storage prefilter
	MaxNoteLength          = 500
)

// DateFormat формат даты в запросах, YYYY-MM-DD
const DateFormat = "2006-01-02"
