package config

import (
	"context"

	"campus-results/result-queue-server/pkg/infra"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// QueueSettings redis key.
	settingsRedisKey = "queue_settings"
)

// QueueSettings are the knobs an operator can flip at run time through
// redis without restarting the server. Refreshed by the reconciliation
// loop every tick, so a change takes effect within one interval.
type QueueSettings struct {
	// If false the admission gate is wide open: every waiting ticket
	// is promoted immediately regardless of slot count.
	QueueEnabled bool `redis:"queueEnabled"`

	// Overrides Config.ConcurrentSlots when > 0.
	ConcurrentSlots int `redis:"concurrentSlots"`

	config *Config

	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func ProvideQueueSettings(config *Config, redisClient *redis.Client, loggerFactory *infra.LoggerFactory) *QueueSettings {
	return &QueueSettings{
		QueueEnabled: true,
		config:       config,
		redisClient:  redisClient,
		logger:       loggerFactory.Create("QueueSettings").Sugar(),
	}
}

// Refresh re-reads the settings hash. A missing hash keeps the current
// values, a redis error is logged and swallowed so a failed tick only
// means stale settings, never a dead loop.
func (s *QueueSettings) Refresh(ctx context.Context) {
	if s.redisClient == nil {
		// No dynamic settings source configured, static config only.
		return
	}
	if err := s.redisClient.HGetAll(ctx, settingsRedisKey).Scan(s); err != nil {
		s.logger.Errorf("err reading queue settings from redis %v", err)
		return
	}
	s.logger.Debugf("queue settings queueEnabled[%v] concurrentSlots[%v]", s.QueueEnabled, s.ConcurrentSlots)
}

// Slots returns the effective concurrency slot count.
func (s *QueueSettings) Slots() int {
	if s.ConcurrentSlots > 0 {
		return s.ConcurrentSlots
	}
	return s.config.ConcurrentSlots
}
