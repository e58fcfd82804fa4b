package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_intelligence/internal/config"
)

const healthCheckPeriod = 30 * time.Second

// NewPostgresDB создает пул соединений PostgreSQL и проверяет, что PostGIS доступен
func NewPostgresDB(ctx context.Context, appCfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(appCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе конфигурации postgres: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "incident_intelligence"
	if appCfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(appCfg.DBMaxConns)
	}
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}

	pingCtx := ctx
	if appCfg.DBPingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, appCfg.DBPingTimeout)
		defer cancel()
	}

	// Запросы к инцидентам используют ST_MakePoint и geography
	var postgisVersion string
	if err := dbpool.QueryRow(pingCtx, "SELECT postgis_version()").Scan(&postgisVersion); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("postgres недоступен или PostGIS не установлен: %w", err)
	}

	return dbpool, nil
}
