package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vgsales/internal/charts"
	"vgsales/internal/engine"
	"vgsales/internal/export"
)

// GetChart renders one chart of the filtered subset as PNG or SVG.
func (h *Handler) GetChart(c echo.Context) error {
	opts := charts.Options{
		Width:  h.cfg.Chart.Width,
		Height: h.cfg.Chart.Height,
		Format: c.QueryParam("format"),
	}
	if opts.Format != "" && opts.Format != "png" && opts.Format != "svg" {
		return echo.NewHTTPError(http.StatusBadRequest, "format must be png or svg")
	}

	ds, err := h.filtered(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch name := c.Param("name"); name {
	case "distribution":
		err = charts.Distribution(&buf, ds.Distribution(h.cfg.HistogramBins), opts)
	case "years":
		err = charts.SalesByYear(&buf, ds.SalesByYear(), opts)
	case "regions":
		err = charts.Regions(&buf, ds.RegionTotals(), opts)
	case "publishers":
		err = charts.Shares(&buf, "Market Share by Publisher", ds.TopShares(engine.FieldPublisher, h.cfg.TopN), opts)
	case "platforms":
		err = charts.Shares(&buf, "Market Share by Platform", ds.TopShares(engine.FieldPlatform, h.cfg.TopN), opts)
	case "regression":
		factor := c.QueryParam("factor")
		if factor == "" || factor == engine.ColGlobalSales {
			return echo.NewHTTPError(http.StatusBadRequest, "factor must name a numeric column other than Global_Sales")
		}
		regs, rerr := ds.Regression([]string{factor})
		if rerr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, rerr.Error())
		}
		err = charts.Regression(&buf, regs[0], opts)
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+name)
	}

	if err != nil {
		if errors.Is(err, charts.ErrNotEnoughData) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.Blob(http.StatusOK, opts.ContentType(), buf.Bytes())
}

// GetExport downloads the filtered subset as Parquet, CSV or JSON.
func (h *Handler) GetExport(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ds, err := h.filtered(c)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="vgsales.`+string(format)+`"`)
	if format == export.FormatJSON {
		return c.JSON(http.StatusOK, ds.Records(0, ds.Len()))
	}

	c.Response().Header().Set(echo.HeaderContentType, format.ContentType())
	c.Response().WriteHeader(http.StatusOK)
	return export.Write(c.Response(), ds, format)
}
