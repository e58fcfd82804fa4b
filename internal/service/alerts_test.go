package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenikar/incident_intelligence/internal/config"
	"github.com/shenikar/incident_intelligence/internal/intelligence"
	"github.com/shenikar/incident_intelligence/internal/metrics"
	"github.com/shenikar/incident_intelligence/internal/models"
	"github.com/shenikar/incident_intelligence/internal/service/mocks"
	"github.com/shenikar/incident_intelligence/internal/webhook"
	webhook_mocks "github.com/shenikar/incident_intelligence/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var avenidaPaulista = models.Position{Lat: -23.5614, Lng: -46.6559}

// newTestAlertService - сервис оповещений с моками репозитория и издателя
func newTestAlertService(t *testing.T) (*alertService, *mocks.MockAlertRepository, *webhook_mocks.MockAlertPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAlertRepository(ctrl)
	publisherMock := webhook_mocks.NewMockAlertPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		AlertDistanceThresholdMeters: 500,
		AlertTimeThreshold:           48 * time.Hour,
		AlertsCacheTTL:               30 * time.Second,
		SnapshotLookback:             7 * 24 * time.Hour,
	}

	m := metrics.New(prometheus.NewRegistry())
	service := NewAlertService(repoMock, nil, publisherMock, m, logger, cfg)
	return service.(*alertService), repoMock, publisherMock
}

// clusterSnapshot - три инцидента в одной точке и один далеко с высоким приоритетом
func clusterSnapshot(now time.Time) []models.Incident {
	return []models.Incident{
		{ID: "a", Title: "Semáforo apagado", Position: avenidaPaulista, ReportedAt: now.Add(-3 * time.Hour)},
		{ID: "b", Title: "Semáforo apagado", Position: avenidaPaulista, ReportedAt: now.Add(-2 * time.Hour)},
		{ID: "c", Title: "Semáforo apagado", Position: avenidaPaulista, ReportedAt: now.Add(-1 * time.Hour)},
		{ID: "d", Title: "Capotamento na marginal", Position: models.Position{Lat: -23.50, Lng: -46.70}, ReportedAt: now},
		{ID: "e", Title: "Sem data", Position: avenidaPaulista},
	}
}

func TestCurrentAlerts_FromCache(t *testing.T) {
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	cached := []models.Alert{{ID: "priority-x", Kind: models.AlertKindPriority}}

	repoMock.EXPECT().GetAlertsFromCache(ctx).Return(cached, true, nil).Times(1)
	repoMock.EXPECT().ListSnapshot(gomock.Any(), gomock.Any()).Times(0)

	alerts, err := service.CurrentAlerts(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, alerts)
}

func TestCurrentAlerts_ComputesOnCacheMiss(t *testing.T) {
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	now := time.Now()
	service.now = func() time.Time { return now }

	repoMock.EXPECT().GetAlertsFromCache(ctx).Return(nil, false, nil).Times(1)
	repoMock.EXPECT().
		ListSnapshot(ctx, now.Add(-7*24*time.Hour)).
		Return(clusterSnapshot(now), nil).
		Times(1)
	repoMock.EXPECT().
		SetAlertsCache(ctx, gomock.Len(2), 30*time.Second).
		Return(nil).
		Times(1)

	alerts, err := service.CurrentAlerts(ctx)

	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "priority-d", alerts[0].ID)
	assert.Equal(t, "cluster-0-a", alerts[1].ID)
	assert.Equal(t, []string{"a", "b", "c"}, alerts[1].IncidentIDs)
}

func TestCurrentAlerts_NoLookbackLoadsAllActive(t *testing.T) {
	service, repoMock, _ := newTestAlertService(t)
	service.cfg.SnapshotLookback = 0
	ctx := context.Background()

	repoMock.EXPECT().GetAlertsFromCache(ctx).Return(nil, false, errors.New("redis down")).Times(1)
	repoMock.EXPECT().ListSnapshot(ctx, time.Time{}).Return(nil, nil).Times(1)
	repoMock.EXPECT().SetAlertsCache(ctx, gomock.Len(0), gomock.Any()).Return(errors.New("redis down")).Times(1)

	alerts, err := service.CurrentAlerts(ctx)

	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCurrentAlerts_SnapshotError(t *testing.T) {
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()

	repoMock.EXPECT().GetAlertsFromCache(ctx).Return(nil, false, nil).Times(1)
	repoMock.EXPECT().ListSnapshot(ctx, gomock.Any()).Return(nil, errors.New("db down")).Times(1)
	repoMock.EXPECT().SetAlertsCache(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	alerts, err := service.CurrentAlerts(ctx)

	assert.Nil(t, alerts)
	assert.ErrorContains(t, err, "could not load incident snapshot")
}

func TestComputeForSnapshot_UsesGivenThresholds(t *testing.T) {
	service, _, _ := newTestAlertService(t)
	now := time.Now()
	snapshot := clusterSnapshot(now)

	alerts := service.ComputeForSnapshot(snapshot, intelligence.Thresholds{DistanceMeters: 20000, Window: 72 * time.Hour})

	require.Len(t, alerts, 2)
	assert.Equal(t, []string{"a", "b", "c", "d"}, alerts[1].IncidentIDs)
	assert.Equal(t, "4 incidents reported within 20000 m and 72 h of each other", alerts[1].Description)
}

func TestNotifyIncident_PublishesRelatedAlerts(t *testing.T) {
	service, repoMock, publisherMock := newTestAlertService(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	snapshot := clusterSnapshot(time.Now())

	repoMock.EXPECT().InvalidateAlertsCache(ctx).Return(nil).Times(1)
	repoMock.EXPECT().ListSnapshot(ctx, gomock.Any()).Return(snapshot, nil).Times(1)
	repoMock.EXPECT().SetAlertsCache(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event webhook.AlertEvent) {
			assert.Equal(t, "b", event.IncidentID)
			assert.Equal(t, now, event.Timestamp)
			require.Len(t, event.Alerts, 1)
			assert.Equal(t, models.AlertKindCluster, event.Alerts[0].Kind)
		}).
		Return(nil).
		Times(1)

	require.NoError(t, service.NotifyIncident(ctx, "b"))
}

func TestNotifyIncident_NothingToPublish(t *testing.T) {
	service, repoMock, publisherMock := newTestAlertService(t)
	ctx := context.Background()

	repoMock.EXPECT().InvalidateAlertsCache(ctx).Return(nil).Times(1)
	repoMock.EXPECT().ListSnapshot(ctx, gomock.Any()).Return(clusterSnapshot(time.Now()), nil).Times(1)
	repoMock.EXPECT().SetAlertsCache(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// инцидент без даты исключен из вычисления
	require.NoError(t, service.NotifyIncident(ctx, "e"))
}

func TestNotifyIncident_PublishError(t *testing.T) {
	service, repoMock, publisherMock := newTestAlertService(t)
	ctx := context.Background()

	repoMock.EXPECT().InvalidateAlertsCache(ctx).Return(nil).Times(1)
	repoMock.EXPECT().ListSnapshot(ctx, gomock.Any()).Return(clusterSnapshot(time.Now()), nil).Times(1)
	repoMock.EXPECT().SetAlertsCache(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("queue full")).Times(1)

	err := service.NotifyIncident(ctx, "d")

	assert.ErrorContains(t, err, "could not publish alerts")
}

func TestClassify_DelegatesToClassifier(t *testing.T) {
	service, _, _ := newTestAlertService(t)

	assert.Equal(t, models.PriorityHigh, service.Classify("Acidente grave com vítimas", ""))
	assert.Equal(t, models.PriorityMedium, service.Classify("Buraco na pista", ""))
	assert.Equal(t, models.PriorityLow, service.Classify("Poste sem luz", ""))
}

func TestInvalidate(t *testing.T) {
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()

	repoMock.EXPECT().InvalidateAlertsCache(ctx).Return(nil).Times(1)
	require.NoError(t, service.Invalidate(ctx))

	repoMock.EXPECT().InvalidateAlertsCache(ctx).Return(errors.New("redis down")).Times(1)
	assert.ErrorContains(t, service.Invalidate(ctx), "could not invalidate alerts cache")
}
