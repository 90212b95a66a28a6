package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentsupply/shop/internal/service"
	"github.com/dentsupply/shop/internal/transport"
	"github.com/dentsupply/shop/pkg/logging"
)

type SettingsHTTP struct {
	Svc *service.SettingsService
}

func (h *SettingsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	settings, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_settings_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.get")

	setting, err := h.Svc.Get(ctx, c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_setting_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "setting not found")
		}
		l.Error("get_setting_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, setting)
}

func (h *SettingsHTTP) Upsert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.upsert")

	var req transport.UpsertSettingRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("upsert_setting_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	setting, err := h.Svc.Upsert(ctx, c.Param("key"), req.Value, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("upsert_setting_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("upsert_setting_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("setting_upserted", "key", setting.Key)
	return c.JSON(http.StatusOK, setting)
}
