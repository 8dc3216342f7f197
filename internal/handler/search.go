package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripsearch/internal/filter"
	"github.com/dharmasatrya/tripsearch/internal/models"
)

type Engine interface {
	Search(ctx context.Context, req models.SearchRequest) *models.SearchResponse
	SearchRoundTrip(ctx context.Context, req models.SearchRequest) *models.SearchResponse
	InvalidateCache(ctx context.Context, pattern string) int
	Normalize(input string) (code, city string)
}

type SearchHandler struct {
	engine Engine
	now    func() time.Time
}

func NewSearchHandler(engine Engine) *SearchHandler {
	return &SearchHandler{
		engine: engine,
		now:    time.Now,
	}
}

func (h *SearchHandler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/search", h.Search)
	api.GET("/locations", h.Locations)
	api.DELETE("/cache", h.InvalidateCache)
	e.GET("/health", HealthHandler)
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := parseSearchRequest(c)
	if err != nil {
		return badRequest(c, "invalid_request", err.Error())
	}

	if err := req.Validate(h.now().UTC()); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	var resp *models.SearchResponse
	if req.ReturnDate != nil && *req.ReturnDate != "" {
		resp = h.engine.SearchRoundTrip(ctx, req)
	} else {
		resp = h.engine.Search(ctx, req)
	}

	opts := filter.FromSearchFilters(req.Filters)
	resp.Results = filter.Apply(resp.Results, opts)
	resp.Count = len(resp.Results)
	if resp.ReturnTrip != nil {
		resp.ReturnTrip.Results = filter.Apply(resp.ReturnTrip.Results, opts)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) Locations(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return badRequest(c, "validation_error", "q is required")
	}

	code, city := h.engine.Normalize(q)
	return c.JSON(http.StatusOK, models.LocationResponse{
		Input: q,
		Code:  code,
		City:  city,
	})
}

func (h *SearchHandler) InvalidateCache(c echo.Context) error {
	pattern := strings.TrimSpace(c.QueryParam("pattern"))
	if pattern == "" {
		return badRequest(c, "validation_error", "pattern is required")
	}
	removed := h.engine.InvalidateCache(c.Request().Context(), pattern)
	return c.JSON(http.StatusOK, map[string]int{
		"removed": removed,
	})
}

func parseSearchRequest(c echo.Context) (models.SearchRequest, error) {
	req := models.SearchRequest{
		Origin:      c.QueryParam("origin"),
		Destination: c.QueryParam("destination"),
		Date:        c.QueryParam("date"),
		Mode:        models.Mode(c.QueryParam("mode")),
		MultiHop:    true,
	}

	if rd := c.QueryParam("returnDate"); rd != "" {
		req.ReturnDate = &rd
	}

	if v := c.QueryParam("multiHop"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("multiHop must be true or false")
		}
		req.MultiHop = b
	}

	filters := &models.SearchFilters{SortBy: strings.ToLower(c.QueryParam("sort"))}
	switch filters.SortBy {
	case "", filter.SortBest, filter.SortFastest, filter.SortCheapest, filter.SortDeparture:
	default:
		return req, errors.New("sort must be one of best, fastest, cheapest, departure")
	}

	if v := c.QueryParam("maxStops"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, errors.New("maxStops must be a non-negative integer")
		}
		filters.MaxStops = &n
	}

	if v := c.QueryParam("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return req, errors.New("maxPrice must be a non-negative number")
		}
		filters.MaxPrice = &f
	}

	if v := c.QueryParam("types"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			t := models.TransportType(strings.ToLower(strings.TrimSpace(raw)))
			switch t {
			case models.TypeFlight, models.TypeTrain, models.TypeBus:
				filters.Types = append(filters.Types, t)
			case "":
			default:
				return req, errors.New("types must be a comma separated list of flight, train, bus")
			}
		}
	}

	req.Filters = filters
	return req, nil
}

func badRequest(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
