package main

import (
	"fmt"
	"net/http"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Server struct {
	application *Application
	server      *http.Server
	logger      *zap.SugaredLogger
}

func ProvideServer(application *Application, config *config.Config, loggerFactory *infra.LoggerFactory) *Server {
	logger := loggerFactory.Create("Server").Sugar()

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogStatus:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Infof("%v %v id[%v] status[%v] latency[%vms]", v.Method, v.URI, v.RequestID, v.Status, v.Latency.Milliseconds())
			return nil
		},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok\n")
	})

	e.PUT("/debug", func(c echo.Context) error {
		infra.LoggerLevel.SetLevel(zapcore.DebugLevel)
		logger.Info("debug logging enabled")
		return c.NoContent(http.StatusOK)
	})

	e.DELETE("/debug", func(c echo.Context) error {
		infra.LoggerLevel.SetLevel(zapcore.InfoLevel)
		logger.Info("debug logging disabled")
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	api.POST("/queue/join", application.HandleJoin)
	api.GET("/queue/status/:ticketId", application.HandleStatus)
	api.DELETE("/queue/leave/:ticketId", application.HandleLeave)
	api.POST("/auth/login", application.HandleLogin)
	api.POST("/auth/logout", application.HandleLogout, application.AuthRequired)
	api.GET("/result-links/available", application.HandleResultLinks)

	e.GET("/ws", application.HandleWs)

	return &Server{
		application: application,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%v", config.ServerPort),
			Handler: e,
		},
		logger: logger,
	}
}

func (s *Server) Run() {
	s.logger.Infof("server running application")
	s.application.Run()

	s.logger.Infof("server starts listening on %v", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		s.logger.Error(err)
	}
}
