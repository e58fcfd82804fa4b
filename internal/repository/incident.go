package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_intelligence/internal/models"
	"github.com/shenikar/incident_intelligence/internal/service"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

var (
	_ service.IncidentRepository = (*IncidentRepository)(nil)
	_ service.AlertRepository    = (*IncidentRepository)(nil)
)

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) *IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

const selectIncident = `
	SELECT
		id::text,
		title,
		description,
		ST_Y(location::geometry) AS latitude,
		ST_X(location::geometry) AS longitude,
		reported_at,
		COALESCE(priority, ''),
		status,
		created_at,
		updated_at
	FROM incidents
`

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (title, description, location, reported_at, priority, status)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, NULLIF($6, ''), $7)
		RETURNING id::text, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Position.Lng,
		incident.Position.Lat,
		nullableTime(incident.ReportedAt),
		string(incident.Priority),
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	query := selectIncident + `WHERE id = $1::uuid;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// Update обновляет инцидент
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			title = $1,
			description = $2,
			location = ST_SetSRID(ST_MakePoint($3, $4), 4326),
			reported_at = $5,
			priority = NULLIF($6, ''),
			status = $7,
			updated_at = NOW()
		WHERE id = $8::uuid;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		incident.Title,
		incident.Description,
		incident.Position.Lng,
		incident.Position.Lat,
		nullableTime(incident.ReportedAt),
		string(incident.Priority),
		incident.Status,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	// Если RowsAffected() == 0, значит инцидента с таким id не существует
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not updated: %w", incident.ID, service.ErrIncidentNotFound)
	}
	return nil
}

// Delete(деактивация) устанавливает статус 'inactive' для инцидента
func (r *IncidentRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE incidents SET
			status = 'inactive',
			updated_at = NOW()
		WHERE id = $1::uuid;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not deactivated: %w", id, service.ErrIncidentNotFound)
	}
	return nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (r *IncidentRepository) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (page - 1) * pageSize

	query := selectIncident + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// ListSnapshot возвращает активные инциденты для вычисления оповещений.
// Порядок по времени сообщения задает порядок жадной кластеризации.
func (r *IncidentRepository) ListSnapshot(ctx context.Context, since time.Time) ([]models.Incident, error) {
	query := selectIncident + `
		WHERE
			status = 'active'
			AND ($1::timestamptz IS NULL OR reported_at IS NULL OR reported_at >= $1::timestamptz)
		ORDER BY reported_at ASC NULLS LAST, id ASC;
	`
	rows, err := r.db.Query(ctx, query, nullableTime(since))
	if err != nil {
		return nil, fmt.Errorf("failed to load incident snapshot: %w", err)
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in ListSnapshot: %w", err)
		}
		incidents = append(incidents, *incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListSnapshot: %w", err)
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var (
		reportedAt pgtype.Timestamptz
		priority   string
	)
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Position.Lat,
		&incident.Position.Lng,
		&reportedAt,
		&priority,
		&incident.Status,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reportedAt.Valid {
		incident.ReportedAt = reportedAt.Time
	}
	incident.Priority = models.Priority(priority)
	return incident, nil
}

// nullableTime переводит нулевое время в NULL
func nullableTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}
