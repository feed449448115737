package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/labstack/echo/v4"

	"vgsales/internal/config"
	"vgsales/internal/engine"
	"vgsales/internal/metrics"
	"vgsales/internal/models"
)

// Handler serves the dashboard API over a lazily loaded dataset. Until the
// cache has finished loading every data route answers 503.
type Handler struct {
	cache   *engine.Cache
	cfg     config.Config
	metrics *metrics.Metrics
}

// NewHandler builds a Handler. m may be nil to disable instrumentation.
func NewHandler(cache *engine.Cache, cfg config.Config, m *metrics.Metrics) *Handler {
	return &Handler{cache: cache, cfg: cfg, metrics: m}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	}

	api := e.Group("/api")
	api.GET("/domains", h.GetDomains)
	api.GET("/games", h.GetGames)
	api.GET("/head", h.GetHead)
	api.GET("/describe", h.GetDescribe)
	api.GET("/export", h.GetExport)
	api.GET("/charts/:name", h.GetChart)

	api.GET("/insights", h.GetInsights)
	ins := api.Group("/insights")
	ins.GET("/distribution", h.GetDistribution)
	ins.GET("/years", h.GetSalesByYear)
	ins.GET("/regions", h.GetRegions)
	ins.GET("/publishers", h.GetTopPublishers)
	ins.GET("/platforms", h.GetTopPlatforms)
	ins.GET("/genres", h.GetGenres)
	ins.GET("/correlation", h.GetCorrelation)
	ins.GET("/scatter", h.GetScatter)
	ins.GET("/regression", h.GetRegression)
}

// --- HELPERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dataset returns the full dataset or a 503 while it is unavailable.
func (h *Handler) dataset() (*engine.Dataset, error) {
	ds, loaded, err := h.cache.Peek()
	if !loaded {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is loading")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset unavailable: "+err.Error())
	}
	return ds, nil
}

// filtered applies the request's selections to the dataset.
func (h *Handler) filtered(c echo.Context) (*engine.Dataset, error) {
	ds, err := h.dataset()
	if err != nil {
		return nil, err
	}
	t0 := time.Now()
	out := engine.Filter(ds, parseSelections(c))
	if h.metrics != nil {
		h.metrics.ObserveFilter(time.Since(t0), out.Len())
	}
	c.Logger().Debugf("filter kept %d of %d rows", out.Len(), ds.Len())
	return out, nil
}

// parseSelections reads one repeatable query parameter per field.
func parseSelections(c echo.Context) engine.Selections {
	sel := engine.Selections{}
	for name, values := range c.QueryParams() {
		// Parameter names match columns case-insensitively.
		f, ok := engine.ParseField(name)
		if !ok {
			continue
		}
		for _, v := range values {
			if v != "" {
				sel[f] = append(sel[f], v)
			}
		}
	}
	return sel
}

// --- HANDLERS ---

// Health reports whether the dataset is ready.
func (h *Handler) Health(c echo.Context) error {
	ds, loaded, err := h.cache.Peek()
	switch {
	case !loaded:
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"status": "loading"})
	case err != nil:
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"status": "error", "error": err.Error()})
	default:
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "rows": ds.Len()})
	}
}

// GetDomains returns the option list of every filter, "Select All" first.
func (h *Handler) GetDomains(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	om := orderedmap.New()
	for _, f := range engine.Fields {
		om.Set(f.Param(), append([]string{engine.SelectAll}, ds.Domain(f)...))
	}
	return c.JSON(http.StatusOK, om)
}

// GetGames returns a page of the filtered rows.
func (h *Handler) GetGames(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	total := ds.Len()
	limit, offset := getPaginationParams(c, h.cfg.PageLimit)

	return c.JSON(http.StatusOK, models.Page{
		Data:    ds.Records(offset, limit),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Applied: ds.Applied().Params(),
	})
}

// GetHead previews the first rows of the unfiltered dataset.
func (h *Handler) GetHead(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(c.QueryParam("n"))
	if err != nil || n <= 0 {
		n = 5
	}
	head := ds.Head(n)
	return c.JSON(http.StatusOK, head.Records(0, head.Len()))
}

// GetDescribe returns summary statistics of the filtered numeric columns.
func (h *Handler) GetDescribe(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.Describe())
}
