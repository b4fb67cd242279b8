package main

import (
	"net/http"

	"campus-results/result-queue-server/pkg/client"
	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"
	"campus-results/result-queue-server/pkg/queue"
	"campus-results/result-queue-server/pkg/result"
	"campus-results/result-queue-server/pkg/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Application struct {
	config     *config.Config
	hub        *client.Hub
	reconciler *queue.Reconciler
	admission  *queue.Admission
	registry   *session.Registry
	tokens     *session.TokenService
	links      *result.LinkService
	wsUpgrader *websocket.Upgrader
	logger     *zap.SugaredLogger
}

func ProvideApplication(
	config *config.Config,
	hub *client.Hub,
	reconciler *queue.Reconciler,
	admission *queue.Admission,
	registry *session.Registry,
	tokens *session.TokenService,
	links *result.LinkService,
	loggerFactory *infra.LoggerFactory,
) *Application {
	return &Application{
		config:     config,
		hub:        hub,
		reconciler: reconciler,
		admission:  admission,
		registry:   registry,
		tokens:     tokens,
		links:      links,
		wsUpgrader: &websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:     loggerFactory.Create("Application").Sugar(),
	}
}

func (a *Application) Run() {
	a.hub.Run()
	a.reconciler.Run()
}

func (a *Application) HandleWs(c echo.Context) error {
	conn, err := a.wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client.NewClient(uuid.New().String(), conn, a.hub).Run()
	return nil
}
