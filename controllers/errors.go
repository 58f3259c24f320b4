package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-commands/schema"
	"github.com/yeremiapane/restaurant-commands/services"
	"github.com/yeremiapane/restaurant-commands/utils"
)

// ErrorStatus maps a service error to an HTTP status code.
func ErrorStatus(err error) int {
	var (
		validation *services.ValidationError
		missing    *schema.MissingFieldError
		fieldType  *schema.FieldTypeError
		tableState *services.InvalidTableStateError
		transition *services.InvalidTransitionError
		forbidden  *services.ForbiddenError
		notFound   *services.NotFoundError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &missing), errors.As(err, &fieldType):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tableState), errors.As(err, &transition), errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	code := ErrorStatus(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	_ = c.Error(err)
	utils.RespondError(c, code, err)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// rateOverride parses an optional service charge rate. Empty means the
// configured default applies.
func rateOverride(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	r, err := services.ParseServiceChargeRate(s, decimal.Zero)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
