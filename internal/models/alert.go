package models

// AlertKind - тип оповещения
type AlertKind string

const (
	AlertKindPriority AlertKind = "priority"
	AlertKindCluster  AlertKind = "cluster"
)

// Alert - оповещение для операторов, вычисляемое заново при каждом запросе
type Alert struct {
	ID          string    `json:"id"`
	Kind        AlertKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IncidentIDs []string  `json:"incident_ids"`
	Location    *Position `json:"location,omitempty"`
	Severity    Priority  `json:"severity"`
}

// References сообщает, ссылается ли оповещение на инцидент
func (a Alert) References(incidentID string) bool {
	for _, id := range a.IncidentIDs {
		if id == incidentID {
			return true
		}
	}
	return false
}
