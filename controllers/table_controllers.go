package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-commands/middlewares"
	"github.com/yeremiapane/restaurant-commands/models"
	"github.com/yeremiapane/restaurant-commands/services"
	"github.com/yeremiapane/restaurant-commands/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(s *services.TableService) *TableController {
	return &TableController{Tables: s}
}

// ListTables -> GET /tables. Staff see their own restaurant; a super admin
// token carries no restaurant and picks one with ?restaurant_id.
func (tc *TableController) ListTables(c *gin.Context) {
	restaurantID := c.GetUint(middlewares.CtxRestaurantID)
	if c.GetString(middlewares.CtxRole) == string(models.RoleSuperAdmin) {
		if q := c.Query("restaurant_id"); q != "" {
			id, err := strconv.ParseUint(q, 10, 64)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, err)
				return
			}
			restaurantID = uint(id)
		}
	}

	tables, err := tc.Tables.ListTables(c.Request.Context(), restaurantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables retrieved", tables)
}

// GetTable -> GET /tables/:table_id
func (tc *TableController) GetTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Tables.GetTable(c.Request.Context(), id, middlewares.StaffID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table retrieved", table)
}

// ReserveTable -> POST /tables/:table_id/reserve
func (tc *TableController) ReserveTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Tables.ReserveTable(c.Request.Context(), id, middlewares.StaffID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table reserved", table)
}

// UnreserveTable -> POST /tables/:table_id/unreserve
func (tc *TableController) UnreserveTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Tables.UnreserveTable(c.Request.Context(), id, middlewares.StaffID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table released", table)
}
