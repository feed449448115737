package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vgsales/internal/engine"
)

func (h *Handler) aggregateOptions() engine.AggregateOptions {
	return engine.AggregateOptions{TopN: h.cfg.TopN, Bins: h.cfg.HistogramBins}
}

// GetInsights returns every chart payload in one response.
func (h *Handler) GetInsights(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.Aggregate(h.aggregateOptions()))
}

func (h *Handler) GetDistribution(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.Distribution(h.cfg.HistogramBins))
}

func (h *Handler) GetSalesByYear(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.SalesByYear())
}

func (h *Handler) GetRegions(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.RegionTotals())
}

// returns Top N publishers
func (h *Handler) GetTopPublishers(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.TopShares(engine.FieldPublisher, h.cfg.TopN))
}

// returns Top N platforms
func (h *Handler) GetTopPlatforms(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.TopShares(engine.FieldPlatform, h.cfg.TopN))
}

func (h *Handler) GetGenres(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.GenreBoxplots())
}

func (h *Handler) GetCorrelation(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.Correlation())
}

func (h *Handler) GetScatter(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.ScatterMatrix())
}

// GetRegression fits Global_Sales against every ?factor= column.
func (h *Handler) GetRegression(c echo.Context) error {
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}
	regs, err := ds.Regression(c.QueryParams()["factor"])
	if err != nil {
		if errors.Is(err, engine.ErrUnknownColumn) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, regs)
}
