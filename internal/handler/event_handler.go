package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planora/internal/auth"
	"planora/internal/errors"
	"planora/internal/model"
	"planora/internal/service"
)

// EventHandler handles event CRUD endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents an event creation request. Recurrence
// defaults to none.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	Recurrence  string `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly"`
}

// UpdateEventRequest represents a partial event update.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Recurrence  *string `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly"`
}

// List godoc
// @Summary List the authenticated user's events
// @Description Without page/limit returns the full list sorted by start date
// @Description descending. With either parameter returns a page envelope.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Records per page"
// @Success 200 {object} service.EventPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	pageParam := c.QueryParam("page")
	limitParam := c.QueryParam("limit")

	if pageParam == "" && limitParam == "" {
		events, err := h.eventService.List(c.Request().Context(), userID)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return c.JSON(http.StatusOK, events)
	}

	page := parsePositiveInt(pageParam, 1)
	limit := parsePositiveInt(limitParam, 10)

	result, err := h.eventService.ListPage(c.Request().Context(), userID, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event fields"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid start date",
			Code:  "VALIDATION_ERROR",
		})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid end date",
			Code:  "VALIDATION_ERROR",
		})
	}

	event, err := h.eventService.Create(c.Request().Context(), userID, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Recurrence:  model.Recurrence(req.Recurrence),
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, event)
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Fields to replace"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid event ID",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid start date",
				Code:  "VALIDATION_ERROR",
			})
		}
		in.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid end date",
				Code:  "VALIDATION_ERROR",
			})
		}
		in.EndDate = &endDate
	}
	if req.Recurrence != nil {
		recurrence := model.Recurrence(*req.Recurrence)
		in.Recurrence = &recurrence
	}

	event, err := h.eventService.Update(c.Request().Context(), userID, eventID, in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid event ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.eventService.Delete(c.Request().Context(), userID, eventID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "event deleted",
	})
}
