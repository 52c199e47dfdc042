package datasource

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-optimizer/internal/config"
)

// New builds the configured race data source. The mock source is only
// selected when the configuration demands it.
func New(cfg *config.DataSourceConfig, logger *logrus.Logger) RaceDataSource {
	if cfg.Mock {
		logger.Warn("Using mock race data source; all race data is synthetic")
		return NewMockDataSource()
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RateLimit

	httpClient := NewRateLimitedHTTPClient(httpCfg, logger)
	return NewAPIClient(httpClient, cfg.BaseURL, cfg.HistoryRaces, logger)
}
