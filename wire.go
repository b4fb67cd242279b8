//go:build wireinject
// +build wireinject

package main

import (
	"campus-results/result-queue-server/pkg/client"
	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"
	"campus-results/result-queue-server/pkg/queue"
	"campus-results/result-queue-server/pkg/result"
	"campus-results/result-queue-server/pkg/session"

	"github.com/google/wire"
)

func Setup() (*Server, error) {
	wire.Build(wire.NewSet(
		ProvideServer,
		ProvideApplication,
		infra.ProvideLoggerFactory,
		infra.ProvideRedisClient,
		infra.ProvideHttpClient,
		config.ProvideConfig,
		config.ProvideQueueSettings,
		queue.ProvideRedisStore,
		wire.Bind(new(queue.Store), new(*queue.RedisStore)),
		queue.ProvideStats,
		queue.ProvideAdmission,
		queue.ProvideReconciler,
		session.ProvideTokenService,
		session.ProvideRedisStore,
		wire.Bind(new(session.Store), new(*session.RedisStore)),
		session.ProvideRegistry,
		wire.Bind(new(queue.Sweeper), new(*session.Registry)),
		wire.Bind(new(queue.SessionCounter), new(*session.Registry)),
		result.ProvideLinkService,
		client.ProvideHub,
	))
	return nil, nil
}
