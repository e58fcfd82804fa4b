package v1

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=255"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Latitude    *float64   `json:"latitude" validate:"required,latitude"`
	Longitude   *float64   `json:"longitude" validate:"required,longitude"`
	ReportedAt  *time.Time `json:"reported_at,omitempty"`
	Priority    string     `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
}

// UpdateIncidentRequest DTO для обновления инцидента
// @Description DTO для обновления инцидента
type UpdateIncidentRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=255"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Latitude    *float64   `json:"latitude" validate:"required,latitude"`
	Longitude   *float64   `json:"longitude" validate:"required,longitude"`
	ReportedAt  *time.Time `json:"reported_at,omitempty"`
	Priority    string     `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Status      string     `json:"status" validate:"required,oneof=active inactive"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	ReportedAt  *time.Time `json:"reported_at,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ClassifyRequest DTO для классификации текста
// @Description DTO для классификации текста
type ClassifyRequest struct {
	Title       string `json:"title" validate:"max=255"`
	Description string `json:"description" validate:"max=4000"`
}

// ClassifyResponse DTO с уровнем приоритета
// @Description DTO с уровнем приоритета
type ClassifyResponse struct {
	Priority string `json:"priority"`
}

// PositionDTO - координаты записи снимка
type PositionDTO struct {
	Lat FlexibleFloat `json:"lat" swaggertype:"number"`
	Lng FlexibleFloat `json:"lng" swaggertype:"number"`
}

// UnmarshalJSON - отсутствующая координата остается NaN, и запись исключается
func (p *PositionDTO) UnmarshalJSON(data []byte) error {
	type plain PositionDTO
	decoded := plain{Lat: FlexibleFloat(math.NaN()), Lng: FlexibleFloat(math.NaN())}
	if err := json.Unmarshal(data, &decoded); err != nil {
		decoded = plain{Lat: FlexibleFloat(math.NaN()), Lng: FlexibleFloat(math.NaN())}
	}
	*p = PositionDTO(decoded)
	return nil
}

// SnapshotIncident - запись снимка для вычисления оповещений.
// Некорректные поля не отклоняют запрос, такие записи просто исключаются.
type SnapshotIncident struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Position    *PositionDTO `json:"position"`
	ReportedAt  FlexibleTime `json:"reported_at" swaggertype:"string" example:"2026-10-17T12:00:00Z"`
	Priority    string       `json:"priority,omitempty"`
}

// ComputeAlertsRequest DTO для вычисления оповещений по переданному снимку
// @Description DTO для вычисления оповещений по переданному снимку
type ComputeAlertsRequest struct {
	Incidents               []SnapshotIncident `json:"incidents"`
	DistanceThresholdMeters float64            `json:"distance_threshold_meters,omitempty" validate:"omitempty,gt=0" example:"500"`
	TimeThresholdMs         int64              `json:"time_threshold_ms,omitempty" validate:"omitempty,gt=0" example:"172800000"`
}

// AlertResponse DTO оповещения
// @Description DTO оповещения
type AlertResponse struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	IncidentIDs []string     `json:"incident_ids"`
	Location    *LocationDTO `json:"location,omitempty"`
	Severity    string       `json:"severity"`
}

// LocationDTO - центр кластера
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FlexibleTime принимает RFC 3339 строку или миллисекунды эпохи.
// Нераспознанное значение становится нулевым временем.
type FlexibleTime struct {
	time.Time
}

func (t *FlexibleTime) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			t.Time = parsed
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
		}
		return nil
	}

	// вне диапазона int64 преобразование переполняется
	if ms, err := strconv.ParseFloat(string(data), 64); err == nil && ms >= math.MinInt64 && ms < math.MaxInt64 {
		t.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

// FlexibleFloat принимает число или числовую строку.
// Остальное становится NaN, и такая позиция считается некорректной.
type FlexibleFloat float64

func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	*f = FlexibleFloat(math.NaN())
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = FlexibleFloat(v)
	}
	return nil
}
