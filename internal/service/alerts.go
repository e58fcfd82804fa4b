package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/incident_intelligence/internal/config"
	"github.com/shenikar/incident_intelligence/internal/intelligence"
	"github.com/shenikar/incident_intelligence/internal/metrics"
	"github.com/shenikar/incident_intelligence/internal/models"
	"github.com/shenikar/incident_intelligence/internal/webhook"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=alerts.go -destination=mocks/mock_alerts.go -package=mocks

// AlertRepository - источник снимка инцидентов и кеш вычисленных оповещений
type AlertRepository interface {
	// ListSnapshot возвращает активные инциденты, сообщенные не раньше since.
	// Нулевой since означает все активные инциденты. Инциденты без времени сообщения включаются.
	ListSnapshot(ctx context.Context, since time.Time) ([]models.Incident, error)
	GetAlertsFromCache(ctx context.Context) ([]models.Alert, bool, error)
	SetAlertsCache(ctx context.Context, alerts []models.Alert, ttl time.Duration) error
	InvalidateAlertsCache(ctx context.Context) error
}

// AlertService определяет контракт для вычисления и доставки оповещений
type AlertService interface {
	CurrentAlerts(ctx context.Context) ([]models.Alert, error)
	ComputeForSnapshot(incidents []models.Incident, th intelligence.Thresholds) []models.Alert
	Classify(title, description string) models.Priority
	NotifyIncident(ctx context.Context, incidentID string) error
	Invalidate(ctx context.Context) error
}

type alertService struct {
	repo       AlertRepository
	classifier *intelligence.Classifier
	engine     *intelligence.Engine
	publisher  webhook.AlertPublisher
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	cfg        *config.Config
	now        func() time.Time
}

// NewAlertService создает сервис оповещений. publisher и m могут быть nil.
func NewAlertService(
	repo AlertRepository,
	classifier *intelligence.Classifier,
	publisher webhook.AlertPublisher,
	m *metrics.Metrics,
	logger *logrus.Logger,
	cfg *config.Config,
) AlertService {
	if classifier == nil {
		classifier = intelligence.DefaultClassifier()
	}
	return &alertService{
		repo:       repo,
		classifier: classifier,
		engine:     intelligence.NewEngine(classifier),
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *alertService) thresholds() intelligence.Thresholds {
	return intelligence.Thresholds{
		DistanceMeters: s.cfg.AlertDistanceThresholdMeters,
		Window:         s.cfg.AlertTimeThreshold,
	}
}

// CurrentAlerts возвращает оповещения по текущему снимку инцидентов
func (s *alertService) CurrentAlerts(ctx context.Context) ([]models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alerts",
		"method":  "CurrentAlerts",
	})

	cached, ok, err := s.repo.GetAlertsFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read alerts cache")
	} else if ok {
		log.Debug("Alerts served from cache")
		return cached, nil
	}

	return s.recompute(ctx, log)
}

// ComputeForSnapshot вычисляет оповещения по снимку, переданному вызывающим
func (s *alertService) ComputeForSnapshot(incidents []models.Incident, th intelligence.Thresholds) []models.Alert {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "alerts",
		"method":    "ComputeForSnapshot",
		"incidents": len(incidents),
	})
	return s.evaluate(log, incidents, th)
}

// Classify определяет приоритет по тексту
func (s *alertService) Classify(title, description string) models.Priority {
	tier := s.classifier.Classify(title, description)
	s.metrics.ObserveClassification(tier)
	return tier
}

// NotifyIncident пересчитывает оповещения и публикует те, что ссылаются на инцидент
func (s *alertService) NotifyIncident(ctx context.Context, incidentID string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "alerts",
		"method":      "NotifyIncident",
		"incident_id": incidentID,
	})

	if err := s.repo.InvalidateAlertsCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate alerts cache")
	}

	alerts, err := s.recompute(ctx, log)
	if err != nil {
		return err
	}

	related := make([]models.Alert, 0)
	for _, a := range alerts {
		if a.References(incidentID) {
			related = append(related, a)
		}
	}
	if len(related) == 0 {
		log.Debug("No alerts reference the incident")
		return nil
	}
	if s.publisher == nil {
		log.Debug("No alert publisher configured")
		return nil
	}

	event := webhook.AlertEvent{
		IncidentID: incidentID,
		Alerts:     related,
		Timestamp:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish alert event")
		return fmt.Errorf("service: could not publish alerts: %w", err)
	}

	log.WithField("alerts", len(related)).Info("Alert event published")
	return nil
}

// Invalidate сбрасывает кеш оповещений
func (s *alertService) Invalidate(ctx context.Context) error {
	if err := s.repo.InvalidateAlertsCache(ctx); err != nil {
		return fmt.Errorf("service: could not invalidate alerts cache: %w", err)
	}
	return nil
}

// recompute загружает снимок, вычисляет оповещения и кладет их в кеш
func (s *alertService) recompute(ctx context.Context, log *logrus.Entry) ([]models.Alert, error) {
	var since time.Time
	if s.cfg.SnapshotLookback > 0 {
		since = s.now().Add(-s.cfg.SnapshotLookback)
	}

	snapshot, err := s.repo.ListSnapshot(ctx, since)
	if err != nil {
		log.WithError(err).Error("Failed to load incident snapshot")
		return nil, fmt.Errorf("service: could not load incident snapshot: %w", err)
	}

	alerts := s.evaluate(log, snapshot, s.thresholds())

	if err := s.repo.SetAlertsCache(ctx, alerts, s.cfg.AlertsCacheTTL); err != nil {
		log.WithError(err).Warn("Failed to cache alerts")
	}
	return alerts, nil
}

func (s *alertService) evaluate(log *logrus.Entry, incidents []models.Incident, th intelligence.Thresholds) []models.Alert {
	start := time.Now()
	report := s.engine.Evaluate(incidents, th)
	took := time.Since(start)
	s.metrics.ObserveComputation(report.Alerts, len(report.Excluded), took)

	if len(report.Excluded) > 0 {
		log.WithField("excluded_ids", report.Excluded).Debug("Incidents excluded from alerting")
	}
	log.WithFields(logrus.Fields{
		"snapshot": len(incidents),
		"excluded": len(report.Excluded),
		"alerts":   len(report.Alerts),
		"took":     took.String(),
	}).Info("Alerts computed")

	return report.Alerts
}
