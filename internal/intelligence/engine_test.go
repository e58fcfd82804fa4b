package intelligence

import (
	"math"
	"testing"
	"time"

	"github.com/shenikar/incident_intelligence/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow  = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	seSquare = models.Position{Lat: -23.5505, Lng: -46.6333}
)

// north смещает точку на заданное число метров к северу
func north(p models.Position, meters float64) models.Position {
	return models.Position{Lat: p.Lat + meters/(EarthRadiusMeters*math.Pi/180), Lng: p.Lng}
}

func newTestEngine() *Engine {
	return NewEngine(nil, WithClock(func() time.Time { return testNow }))
}

func incident(id string, pos models.Position, at time.Time) models.Incident {
	return models.Incident{
		ID:          id,
		Title:       "Poste sem luz",
		Description: "Rua escura",
		Position:    pos,
		ReportedAt:  at,
	}
}

func clusterAlerts(alerts []models.Alert) []models.Alert {
	var out []models.Alert
	for _, a := range alerts {
		if a.Kind == models.AlertKindCluster {
			out = append(out, a)
		}
	}
	return out
}

func TestComputeAlerts_EmptyInput(t *testing.T) {
	alerts := newTestEngine().ComputeAlerts([]models.Incident{}, DefaultThresholds())

	require.NotNil(t, alerts)
	assert.Empty(t, alerts)
	assert.Empty(t, newTestEngine().ComputeAlerts(nil, DefaultThresholds()))
}

func TestComputeAlerts_ThreeIncidentsSameSpot(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-3*time.Hour)),
		incident("b", seSquare, testNow.Add(-2*time.Hour)),
		incident("c", seSquare, testNow.Add(-1*time.Hour)),
	}

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())

	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, models.AlertKindCluster, alert.Kind)
	assert.Equal(t, "cluster-0-a", alert.ID)
	assert.Equal(t, []string{"a", "b", "c"}, alert.IncidentIDs)
	assert.Equal(t, models.PriorityMedium, alert.Severity)
	assert.Equal(t, "Cluster of 3 related incidents", alert.Title)
	assert.Equal(t, "3 incidents reported within 500 m and 48 h of each other", alert.Description)
	require.NotNil(t, alert.Location)
	assert.InDelta(t, seSquare.Lat, alert.Location.Lat, 1e-9)
	assert.InDelta(t, seSquare.Lng, alert.Location.Lng, 1e-9)
}

func TestComputeAlerts_DistanceBeyondThreshold(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", north(seSquare, 600), testNow.Add(-time.Hour)),
		incident("c", north(seSquare, 1200), testNow.Add(-time.Hour)),
	}

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())
	assert.Empty(t, clusterAlerts(alerts))

	wider := Thresholds{DistanceMeters: 1300, Window: DefaultTimeThreshold}
	alerts = newTestEngine().ComputeAlerts(incidents, wider)
	require.Len(t, clusterAlerts(alerts), 1)
	assert.Equal(t, "3 incidents reported within 1300 m and 48 h of each other", alerts[0].Description)
}

func TestComputeAlerts_TimeBeyondThreshold(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-100*time.Hour)),
		incident("b", seSquare, testNow.Add(-time.Hour)),
		incident("c", seSquare, testNow),
	}

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())
	assert.Empty(t, clusterAlerts(alerts))
}

func TestComputeAlerts_RecentHighPriority(t *testing.T) {
	inc := incident("x1", seSquare, testNow)
	inc.Title = "Acidente grave com vítimas"

	alerts := newTestEngine().ComputeAlerts([]models.Incident{inc}, DefaultThresholds())

	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertKindPriority, alerts[0].Kind)
	assert.Equal(t, "priority-x1", alerts[0].ID)
	assert.Equal(t, []string{"x1"}, alerts[0].IncidentIDs)
	assert.Equal(t, models.PriorityHigh, alerts[0].Severity)
	assert.Nil(t, alerts[0].Location)
}

func TestComputeAlerts_StaleHighPriorityNotEscalated(t *testing.T) {
	stale := testNow.Add(-72 * time.Hour)
	incidents := []models.Incident{
		incident("a", seSquare, stale),
		incident("b", seSquare, stale.Add(time.Hour)),
		incident("c", seSquare, stale.Add(2*time.Hour)),
	}
	for i := range incidents {
		incidents[i].Priority = models.PriorityHigh
	}

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())

	// время для кластера сравнивается между инцидентами, а не с текущим моментом
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertKindCluster, alerts[0].Kind)
}

func TestComputeAlerts_FutureTimestampWithinWindowIsRecent(t *testing.T) {
	inc := incident("f", seSquare, testNow.Add(time.Hour))
	inc.Priority = models.PriorityHigh

	alerts := newTestEngine().ComputeAlerts([]models.Incident{inc}, DefaultThresholds())
	require.Len(t, alerts, 1)
	assert.Equal(t, "priority-f", alerts[0].ID)
}

func TestComputeAlerts_TwoDisjointPairs(t *testing.T) {
	far := north(seSquare, 5000)
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", far, testNow.Add(-time.Hour)),
		incident("c", seSquare, testNow.Add(-2*time.Hour)),
		incident("d", far, testNow.Add(-2*time.Hour)),
	}

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())
	assert.Empty(t, alerts)
}

func TestComputeAlerts_RetentionRule(t *testing.T) {
	pair := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", north(seSquare, 100), testNow.Add(-time.Hour)),
	}
	assert.Empty(t, newTestEngine().ComputeAlerts(pair, DefaultThresholds()))

	triple := append(pair, incident("c", north(seSquare, 200), testNow.Add(-time.Hour)))
	alerts := newTestEngine().ComputeAlerts(triple, DefaultThresholds())
	require.Len(t, alerts, 1)
	assert.Len(t, alerts[0].IncidentIDs, 3)
}

func TestComputeAlerts_GreedyOrderDependence(t *testing.T) {
	// b, c, d находятся в 300 м друг от друга, но a забирает b в группу,
	// которая затем отбрасывается, и b больше не рассматривается
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", north(seSquare, 300), testNow.Add(-time.Hour)),
		incident("c", north(seSquare, 600), testNow.Add(-time.Hour)),
		incident("d", north(seSquare, 600), testNow.Add(-time.Hour)),
	}
	assert.Empty(t, newTestEngine().ComputeAlerts(incidents, DefaultThresholds()))

	reordered := []models.Incident{incidents[1], incidents[0], incidents[2], incidents[3]}
	alerts := newTestEngine().ComputeAlerts(reordered, DefaultThresholds())
	require.Len(t, alerts, 1)
	assert.Equal(t, []string{"b", "a", "c", "d"}, alerts[0].IncidentIDs)
}

func TestComputeAlerts_PriorityAlertsPrecedeClusters(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-3*time.Hour)),
		incident("b", seSquare, testNow.Add(-2*time.Hour)),
		incident("c", seSquare, testNow.Add(-1*time.Hour)),
		incident("d", north(seSquare, 5000), testNow.Add(-1*time.Hour)),
	}
	incidents[1].Title = "Atropelamento na faixa"
	incidents[3].Description = "Incêndio em galpão"

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())

	require.Len(t, alerts, 3)
	assert.Equal(t, "priority-b", alerts[0].ID)
	assert.Equal(t, "priority-d", alerts[1].ID)
	assert.Equal(t, "cluster-0-a", alerts[2].ID)
	// инцидент высокого приоритета остается и в кластере
	assert.Contains(t, alerts[2].IncidentIDs, "b")
}

func TestComputeAlerts_ClusterOrdinals(t *testing.T) {
	far := north(seSquare, 5000)
	var incidents []models.Incident
	for _, id := range []string{"a", "b", "c"} {
		incidents = append(incidents, incident(id, seSquare, testNow.Add(-time.Hour)))
	}
	for _, id := range []string{"d", "e", "f"} {
		incidents = append(incidents, incident(id, far, testNow.Add(-time.Hour)))
	}

	alerts := newTestEngine().ComputeAlerts(incidents, DefaultThresholds())

	require.Len(t, alerts, 2)
	assert.Equal(t, "cluster-0-a", alerts[0].ID)
	assert.Equal(t, "cluster-1-d", alerts[1].ID)
	assert.InDelta(t, far.Lat, alerts[1].Location.Lat, 1e-9)
}

func TestEvaluate_ExcludesIneligibleRecords(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("no-time", seSquare, time.Time{}),
		incident("b", seSquare, testNow.Add(-time.Hour)),
		incident("bad-pos", models.Position{Lat: math.NaN(), Lng: 0}, testNow),
		incident("c", seSquare, testNow.Add(-time.Hour)),
	}
	incidents[1].Title = "Acidente grave"

	report := newTestEngine().Evaluate(incidents, DefaultThresholds())

	assert.Equal(t, []string{"no-time", "bad-pos"}, report.Excluded)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, []string{"a", "b", "c"}, report.Alerts[0].IncidentIDs)
}

func TestComputeAlerts_DoesNotMutateInput(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", seSquare, testNow.Add(-time.Hour)),
		incident("c", seSquare, testNow.Add(-time.Hour)),
	}
	incidents[0].Title = "Colisão grave"
	snapshot := make([]models.Incident, len(incidents))
	copy(snapshot, incidents)

	newTestEngine().ComputeAlerts(incidents, DefaultThresholds())

	assert.Equal(t, snapshot, incidents)
	assert.Empty(t, incidents[0].Priority)
}

func TestComputeAlerts_Idempotent(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", seSquare, testNow.Add(-2*time.Hour)),
		incident("c", north(seSquare, 50), testNow.Add(-3*time.Hour)),
		incident("d", north(seSquare, 9000), testNow),
	}
	incidents[3].Priority = models.PriorityHigh

	e := newTestEngine()
	first := e.ComputeAlerts(incidents, DefaultThresholds())
	second := e.ComputeAlerts(incidents, DefaultThresholds())

	assert.Equal(t, first, second)
}

func TestComputeAlerts_ExplicitPriorityOverridesClassifier(t *testing.T) {
	inc := incident("a", seSquare, testNow)
	inc.Title = "Acidente grave"
	inc.Priority = models.PriorityLow

	assert.Empty(t, newTestEngine().ComputeAlerts([]models.Incident{inc}, DefaultThresholds()))

	inc.Priority = "critical"
	alerts := newTestEngine().ComputeAlerts([]models.Incident{inc}, DefaultThresholds())
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertKindPriority, alerts[0].Kind)
}

func TestThresholds_ZeroValuesFallBackToDefaults(t *testing.T) {
	incidents := []models.Incident{
		incident("a", seSquare, testNow.Add(-time.Hour)),
		incident("b", north(seSquare, 400), testNow.Add(-47*time.Hour)),
		incident("c", seSquare, testNow.Add(-time.Hour)),
	}

	alerts := newTestEngine().ComputeAlerts(incidents, Thresholds{})
	require.Len(t, alerts, 1)
	assert.Equal(t, "3 incidents reported within 500 m and 48 h of each other", alerts[0].Description)
}
