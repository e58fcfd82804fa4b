package models

import (
	"time"
)

// Priority - уровень серьезности инцидента. Пустое значение означает, что приоритет не задан.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid сообщает, является ли значение одним из известных уровней
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Position - координаты WGS-84 в десятичных градусах
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Incident - сообщение гражданина об инциденте.
// Нулевой ReportedAt означает, что время сообщения неизвестно.
type Incident struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    Position  `json:"position"`
	ReportedAt  time.Time `json:"reported_at"`
	Priority    Priority  `json:"priority,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
