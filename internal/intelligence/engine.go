package intelligence

import (
	"fmt"
	"sort"
	"time"

	"github.com/shenikar/incident_intelligence/internal/models"
)

const (
	// DefaultDistanceThresholdMeters - максимальное расстояние между инцидентами одного кластера
	DefaultDistanceThresholdMeters = 500.0
	// DefaultTimeThreshold - окно времени для кластеров и для "свежести" приоритетных оповещений
	DefaultTimeThreshold = 48 * time.Hour

	// minClusterSize - группы меньшего размера отбрасываются
	minClusterSize = 3
)

// Thresholds - настраиваемые пороги движка.
// Нулевые и отрицательные значения заменяются значениями по умолчанию.
type Thresholds struct {
	DistanceMeters float64
	Window         time.Duration
}

// DefaultThresholds возвращает 500 м и 48 ч
func DefaultThresholds() Thresholds {
	return Thresholds{
		DistanceMeters: DefaultDistanceThresholdMeters,
		Window:         DefaultTimeThreshold,
	}
}

func (t Thresholds) normalized() Thresholds {
	if t.DistanceMeters <= 0 {
		t.DistanceMeters = DefaultDistanceThresholdMeters
	}
	if t.Window <= 0 {
		t.Window = DefaultTimeThreshold
	}
	return t
}

// Report - результат одного вычисления
type Report struct {
	Alerts []models.Alert
	// Excluded - id инцидентов без времени сообщения или с некорректными координатами
	Excluded []string
}

// Engine вычисляет оповещения по снимку инцидентов.
// Состояние между вызовами не хранится, поэтому Engine безопасен для конкурентного использования.
type Engine struct {
	classifier *Classifier
	now        func() time.Time
}

// Option настраивает Engine
type Option func(*Engine)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine создает движок. nil classifier означает встроенную таблицу ключевых слов.
func NewEngine(classifier *Classifier, opts ...Option) *Engine {
	if classifier == nil {
		classifier = defaultClassifier
	}
	e := &Engine{
		classifier: classifier,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine(nil)

// ComputeAlerts вычисляет оповещения встроенным классификатором относительно текущего времени
func ComputeAlerts(incidents []models.Incident, th Thresholds) []models.Alert {
	return defaultEngine.ComputeAlerts(incidents, th)
}

// ComputeAlerts возвращает оповещения: сначала приоритетные (high), затем кластеры (medium)
func (e *Engine) ComputeAlerts(incidents []models.Incident, th Thresholds) []models.Alert {
	return e.Evaluate(incidents, th).Alerts
}

// candidate - копия подходящего инцидента с вычисленным приоритетом
type candidate struct {
	id       string
	title    string
	position models.Position
	at       time.Time
	priority models.Priority
}

// Evaluate вычисляет оповещения и собирает id исключенных инцидентов.
// Входной слайс не изменяется.
func (e *Engine) Evaluate(incidents []models.Incident, th Thresholds) Report {
	th = th.normalized()
	now := e.now()

	report := Report{Alerts: make([]models.Alert, 0)}
	eligible := make([]candidate, 0, len(incidents))
	for _, inc := range incidents {
		if inc.ReportedAt.IsZero() || !ValidPosition(inc.Position) {
			report.Excluded = append(report.Excluded, inc.ID)
			continue
		}
		priority := inc.Priority
		if !priority.Valid() {
			priority = e.classifier.Classify(inc.Title, inc.Description)
		}
		eligible = append(eligible, candidate{
			id:       inc.ID,
			title:    inc.Title,
			position: inc.Position,
			at:       inc.ReportedAt,
			priority: priority,
		})
	}

	for _, c := range eligible {
		if c.priority == models.PriorityHigh && absDuration(now.Sub(c.at)) <= th.Window {
			report.Alerts = append(report.Alerts, priorityAlert(c))
		}
	}

	for i, group := range groupCandidates(eligible, th) {
		report.Alerts = append(report.Alerts, clusterAlert(i, group, th))
	}

	sort.SliceStable(report.Alerts, func(i, j int) bool {
		return severityRank(report.Alerts[i].Severity) < severityRank(report.Alerts[j].Severity)
	})

	return report
}

// groupCandidates - жадная однопроходная группировка в порядке входа.
// Инцидент помечается посещенным сразу при попадании в группу, даже если группа затем
// отбрасывается, поэтому результат зависит от порядка и не является оптимальным.
func groupCandidates(eligible []candidate, th Thresholds) [][]candidate {
	visited := make([]bool, len(eligible))
	var clusters [][]candidate

	for i := range eligible {
		if visited[i] {
			continue
		}
		visited[i] = true
		group := []candidate{eligible[i]}

		for j := i + 1; j < len(eligible); j++ {
			if visited[j] {
				continue
			}
			if HaversineMeters(eligible[i].position, eligible[j].position) <= th.DistanceMeters &&
				absDuration(eligible[i].at.Sub(eligible[j].at)) <= th.Window {
				group = append(group, eligible[j])
				visited[j] = true
			}
		}

		if len(group) >= minClusterSize {
			clusters = append(clusters, group)
		}
	}
	return clusters
}

func priorityAlert(c candidate) models.Alert {
	return models.Alert{
		ID:          "priority-" + c.id,
		Kind:        models.AlertKindPriority,
		Title:       "High priority incident",
		Description: fmt.Sprintf("%q was reported at %s", c.title, c.at.UTC().Format(time.RFC3339)),
		IncidentIDs: []string{c.id},
		Severity:    models.PriorityHigh,
	}
}

func clusterAlert(index int, group []candidate, th Thresholds) models.Alert {
	ids := make([]string, len(group))
	points := make([]models.Position, len(group))
	for i, c := range group {
		ids[i] = c.id
		points[i] = c.position
	}
	centroid := Centroid(points)
	hours := int(th.Window / time.Hour)

	return models.Alert{
		ID:    fmt.Sprintf("cluster-%d-%s", index, ids[0]),
		Kind:  models.AlertKindCluster,
		Title: fmt.Sprintf("Cluster of %d related incidents", len(group)),
		Description: fmt.Sprintf("%d incidents reported within %.0f m and %d h of each other",
			len(group), th.DistanceMeters, hours),
		IncidentIDs: ids,
		Location:    &centroid,
		Severity:    models.PriorityMedium,
	}
}

func severityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	}
	return 2
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
