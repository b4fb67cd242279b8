package main

import (
	"errors"
	"net/http"
	"strings"

	"campus-results/result-queue-server/pkg/queue"
	"campus-results/result-queue-server/pkg/result"
	"campus-results/result-queue-server/pkg/session"

	"github.com/labstack/echo/v4"
)

// apiError is the boundary error envelope: a stable machine readable
// kind plus human text.
type apiError struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type joinResponse struct {
	TicketId             string `json:"ticketId"`
	Rank                 int    `json:"rank"`
	LineLength           int64  `json:"lineLength"`
	EstimatedWaitSeconds int64  `json:"estimatedWaitSeconds"`
	JoinedAt             int64  `json:"joinedAt"`
}

type statusResponse struct {
	Status               queue.TicketStatus `json:"status"`
	Rank                 int                `json:"rank"`
	LineLength           int64              `json:"lineLength"`
	EstimatedWaitSeconds int64              `json:"estimatedWaitSeconds"`
	JoinedAt             int64              `json:"joinedAt"`
}

type loginRequest struct {
	RollNo     string           `json:"rollNo"`
	Dob        string           `json:"dob"`
	Department string           `json:"department"`
	TicketId   string           `json:"ticketId"`
	Selection  result.Selection `json:"selection"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	Student studentSummary `json:"student"`
}

type studentSummary struct {
	RollNo     string `json:"rollNo"`
	Department string `json:"department"`
	Dob        string `json:"dob"`
}

func (a *Application) HandleJoin(c echo.Context) error {
	ctx := c.Request().Context()

	ticket, err := a.admission.Issue(ctx)
	if err != nil {
		a.logger.Errorf("issue failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not join the queue"})
	}

	rank, err := a.admission.Position(ctx, ticket.TicketId)
	if err != nil {
		a.logger.Errorf("position read failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not read queue position"})
	}
	lineLength, err := a.admission.LineLength(ctx)
	if err != nil {
		a.logger.Errorf("line length read failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not read queue length"})
	}

	return c.JSON(http.StatusOK, joinResponse{
		TicketId:             string(ticket.TicketId),
		Rank:                 rank,
		LineLength:           lineLength,
		EstimatedWaitSeconds: int64(a.admission.EstimateWait(rank).Seconds()),
		JoinedAt:             ticket.JoinedAt,
	})
}

func (a *Application) HandleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	ticketId := queue.TicketId(c.Param("ticketId"))

	ticket, err := a.admission.Lookup(ctx, ticketId)
	if errors.Is(err, queue.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Kind: "NOT_FOUND", Error: "ticket unknown or expired"})
	}
	if err != nil {
		a.logger.Errorf("ticket lookup failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not read ticket"})
	}

	rank := 0
	if ticket.Status == queue.StatusWaiting {
		if rank, err = a.admission.Position(ctx, ticketId); err != nil {
			a.logger.Errorf("position read failed %v", err)
			return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not read queue position"})
		}
	}
	lineLength, err := a.admission.LineLength(ctx)
	if err != nil {
		a.logger.Errorf("line length read failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not read queue length"})
	}

	return c.JSON(http.StatusOK, statusResponse{
		Status:               ticket.Status,
		Rank:                 rank,
		LineLength:           lineLength,
		EstimatedWaitSeconds: int64(a.admission.EstimateWait(rank).Seconds()),
		JoinedAt:             ticket.JoinedAt,
	})
}

func (a *Application) HandleLeave(c echo.Context) error {
	ctx := c.Request().Context()
	ticketId := queue.TicketId(c.Param("ticketId"))

	if err := a.admission.Withdraw(ctx, ticketId); err != nil {
		a.logger.Errorf("withdraw failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not leave the queue"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "removed from queue"})
}

// HandleLogin exchanges an ACTIVE ticket plus identity proof for a
// session credential. The ticket is consumed before session creation
// and is not restored when creation fails with a duplicate: losing the
// queue position on a double login is the intended trade-off.
func (a *Application) HandleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	req := &loginRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Kind: "INVALID_REQUEST", Error: "malformed request body"})
	}
	if req.RollNo == "" || req.Dob == "" || req.Department == "" || req.TicketId == "" {
		return c.JSON(http.StatusBadRequest, apiError{Kind: "INVALID_REQUEST", Error: "all fields are required"})
	}
	if err := req.Selection.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Kind: "INVALID_REQUEST", Error: err.Error()})
	}

	if _, err := a.admission.Consume(ctx, queue.TicketId(req.TicketId)); err != nil {
		if errors.Is(err, queue.ErrInvalidTicket) {
			return c.JSON(http.StatusForbidden, apiError{Kind: "INVALID_TICKET", Error: "invalid or expired queue ticket"})
		}
		a.logger.Errorf("consume failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not redeem ticket"})
	}

	credential, err := a.tokens.Generate(req.RollNo, req.Department, req.Dob, req.Selection)
	if err != nil {
		a.logger.Errorf("credential generation failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "INTERNAL", Error: "could not create session"})
	}

	if _, err := a.registry.Create(ctx, req.RollNo, credential, req.Selection); err != nil {
		if errors.Is(err, session.ErrDuplicateSession) {
			return c.JSON(http.StatusConflict, apiError{Kind: "DUPLICATE_SESSION", Error: "active session exists for this roll number"})
		}
		a.logger.Errorf("session creation failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not create session"})
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: credential,
		Student: studentSummary{
			RollNo:     req.RollNo,
			Department: req.Department,
			Dob:        req.Dob,
		},
	})
}

func (a *Application) HandleLogout(c echo.Context) error {
	ctx := c.Request().Context()
	claims := c.Get("claims").(*session.Claims)
	credential := c.Get("credential").(string)

	if err := a.registry.End(ctx, claims.RollNo, credential); err != nil {
		a.logger.Errorf("logout failed %v", err)
		return c.JSON(http.StatusInternalServerError, apiError{Kind: "STORE_UNAVAILABLE", Error: "could not end session"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (a *Application) HandleResultLinks(c echo.Context) error {
	ctx := c.Request().Context()

	sel := &result.Selection{
		ProgramType: result.ProgramType(c.QueryParam("programType")),
		Year:        c.QueryParam("year"),
		Semester:    c.QueryParam("semester"),
		Regulation:  c.QueryParam("regulation"),
		ExamType:    c.QueryParam("examType"),
		ProgramName: c.QueryParam("programName"),
	}
	if err := sel.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Kind: "INVALID_REQUEST", Error: err.Error()})
	}

	links, err := a.links.Available(ctx, sel)
	if err != nil {
		a.logger.Errorf("result link discovery failed %v", err)
		return c.JSON(http.StatusBadGateway, apiError{Kind: "UPSTREAM_UNAVAILABLE", Error: "could not fetch result links"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"links": links})
}

// AuthRequired validates the bearer credential and its backing session
// record before the handler runs.
func (a *Application) AuthRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get(echo.HeaderAuthorization)
		credential, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok || credential == "" {
			return c.JSON(http.StatusUnauthorized, apiError{Kind: "UNAUTHORIZED", Error: "no token provided"})
		}

		claims, _, err := a.registry.Validate(c.Request().Context(), credential)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, apiError{Kind: "UNAUTHORIZED", Error: "invalid or expired session"})
		}

		c.Set("claims", claims)
		c.Set("credential", credential)
		return next(c)
	}
}
