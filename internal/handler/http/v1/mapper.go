package v1

import (
	"math"
	"time"

	"github.com/shenikar/incident_intelligence/internal/models"
)

// DTOToIncidentModel преобразует DTO создания/обновления в доменную модель.
// Используем одну функцию, так как поля совпадают.
func DTOToIncidentModel(dto any) *models.Incident {
	switch v := dto.(type) {
	case CreateIncidentRequest:
		return &models.Incident{
			Title:       v.Title,
			Description: v.Description,
			Position:    models.Position{Lat: deref(v.Latitude), Lng: deref(v.Longitude)},
			ReportedAt:  reportedAtOrNow(v.ReportedAt),
			Priority:    models.Priority(v.Priority),
		}
	case UpdateIncidentRequest:
		// без reported_at время остается нулевым, и сервис сохраняет прежнее
		return &models.Incident{
			Title:       v.Title,
			Description: v.Description,
			Position:    models.Position{Lat: deref(v.Latitude), Lng: deref(v.Longitude)},
			ReportedAt:  reportedAtOrZero(v.ReportedAt),
			Priority:    models.Priority(v.Priority),
			Status:      v.Status,
		}
	}
	return nil
}

// reportedAtOrNow - без явного времени новый инцидент считается сообщенным сейчас
func reportedAtOrNow(t *time.Time) time.Time {
	if at := reportedAtOrZero(t); !at.IsZero() {
		return at
	}
	return time.Now().UTC()
}

func reportedAtOrZero(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Latitude:    model.Position.Lat,
		Longitude:   model.Position.Lng,
		Priority:    string(model.Priority),
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if !model.ReportedAt.IsZero() {
		reportedAt := model.ReportedAt
		resp.ReportedAt = &reportedAt
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// SnapshotToIncidents переводит записи снимка в модели.
// Отсутствующая позиция превращается в NaN и отсекается движком.
func SnapshotToIncidents(records []SnapshotIncident) []models.Incident {
	incidents := make([]models.Incident, len(records))
	for i, r := range records {
		position := models.Position{Lat: math.NaN(), Lng: math.NaN()}
		if r.Position != nil {
			position = models.Position{Lat: float64(r.Position.Lat), Lng: float64(r.Position.Lng)}
		}
		incidents[i] = models.Incident{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Position:    position,
			ReportedAt:  r.ReportedAt.Time,
			Priority:    models.Priority(r.Priority),
		}
	}
	return incidents
}

// ModelsToAlertResponses преобразует оповещения в DTO
func ModelsToAlertResponses(alerts []models.Alert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		resp := AlertResponse{
			ID:          a.ID,
			Kind:        string(a.Kind),
			Title:       a.Title,
			Description: a.Description,
			IncidentIDs: append([]string(nil), a.IncidentIDs...),
			Severity:    string(a.Severity),
		}
		if a.Location != nil {
			resp.Location = &LocationDTO{Lat: a.Location.Lat, Lng: a.Location.Lng}
		}
		responses[i] = resp
	}
	return responses
}
