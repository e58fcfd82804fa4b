package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/incident_intelligence/internal/config"
	"github.com/shenikar/incident_intelligence/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrIncidentNotFound возвращается репозиторием, если инцидента нет
var ErrIncidentNotFound = errors.New("incident not found")

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

// IncidentRepository определяет контракт для работы с бд и кешем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	Delete(ctx context.Context, id string) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id string) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	UpdateIncident(ctx context.Context, incident *models.Incident) error
	DeactivateIncident(ctx context.Context, id string) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
}

type incidentService struct {
	repo   IncidentRepository
	alerts AlertService
	logger *logrus.Logger
	cfg    *config.Config
}

func NewIncidentService(repo IncidentRepository, alerts AlertService, logger *logrus.Logger, cfg *config.Config) IncidentService {
	return &incidentService{
		repo:   repo,
		alerts: alerts,
		logger: logger,
		cfg:    cfg,
	}
}

// CreateIncident создает инцидент и оповещает о связанных с ним оповещениях
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"title":   incident.Title,
	})
	log.Info("Attempting to create a new incident")

	incident.Status = "active"
	if !incident.Priority.Valid() {
		incident.Priority = s.alerts.Classify(incident.Title, incident.Description)
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}
	log = log.WithFields(logrus.Fields{"incident_id": incident.ID, "priority": incident.Priority})

	// Ошибка оповещения не отменяет создание инцидента
	if err := s.alerts.NotifyIncident(ctx, incident.ID); err != nil {
		log.WithError(err).Warn("Failed to publish alerts for new incident")
	}

	log.Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	} else if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// UpdateIncident обновляет существующий инцидент и оповещает о связанных с ним оповещениях
func (s *incidentService) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": incident.ID,
	})
	log.Info("Attempting to update an incident")

	existing, err := s.repo.GetByID(ctx, incident.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return fmt.Errorf("service: incident with id %s not found for update: %w", incident.ID, err)
	}

	existing.Title = incident.Title
	existing.Description = incident.Description
	existing.Position = incident.Position
	// Нулевое время означает, что время сообщения не меняется
	if !incident.ReportedAt.IsZero() {
		existing.ReportedAt = incident.ReportedAt
	}
	existing.Priority = incident.Priority
	if !existing.Priority.Valid() {
		existing.Priority = s.alerts.Classify(existing.Title, existing.Description)
	}
	if incident.Status != "" {
		existing.Status = incident.Status
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return fmt.Errorf("service: could not update incident: %w", err)
	}
	s.invalidate(ctx, log, incident.ID)

	// Обновление может поднять приоритет или сдвинуть инцидент в кластер
	if err := s.alerts.NotifyIncident(ctx, existing.ID); err != nil {
		log.WithError(err).Warn("Failed to publish alerts for updated incident")
	}

	log.Info("Incident updated successfully")
	return nil
}

// DeactivateIncident деактивирует инцидент
func (s *incidentService) DeactivateIncident(ctx context.Context, id string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeactivateIncident",
		"incident_id": id,
	})
	log.Info("Attempting to deactivate incident")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to deactivate a non-existent incident")
		return fmt.Errorf("service: incident with id %s not found for deactivate: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to deactivate incident in repository")
		return fmt.Errorf("service: could not deactivate incident: %w", err)
	}
	s.invalidate(ctx, log, id)

	log.Info("Incident deactivated successfully")
	return nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})
	log.Info("Listing incidents")

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// invalidate сбрасывает кеш инцидента и списка оповещений
func (s *incidentService) invalidate(ctx context.Context, log *logrus.Entry, id string) {
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	if err := s.alerts.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate alerts cache")
	}
}
