package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-commands/middlewares"
	"github.com/yeremiapane/restaurant-commands/services"
	"github.com/yeremiapane/restaurant-commands/utils"
)

type CommandController struct {
	Lifecycle *services.CommandLifecycle
}

func NewCommandController(l *services.CommandLifecycle) *CommandController {
	return &CommandController{Lifecycle: l}
}

type rateRequest struct {
	ServiceChargeRate string `json:"service_charge_rate"`
}

// OpenCommand -> POST /tables/:table_id/commands
func (cc *CommandController) OpenCommand(c *gin.Context) {
	tableID, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	cmd, err := cc.Lifecycle.OpenCommand(c.Request.Context(), services.OpenCommandRequest{
		TableID: tableID,
		StaffID: middlewares.StaffID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Command opened", cmd)
}

// GetCommand -> GET /commands/:command_id?service_charge_rate=0.10
func (cc *CommandController) GetCommand(c *gin.Context) {
	id, ok := paramID(c, "command_id")
	if !ok {
		return
	}
	rate, err := rateOverride(c.Query("service_charge_rate"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view, err := cc.Lifecycle.GetCommandView(c.Request.Context(), id, middlewares.StaffID(c), rate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Command retrieved", view)
}

// AddItem -> POST /commands/:command_id/items
func (cc *CommandController) AddItem(c *gin.Context) {
	id, ok := paramID(c, "command_id")
	if !ok {
		return
	}
	var req struct {
		ProductID uint   `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
		Notes     string `json:"notes"`
		rateRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rate, err := rateOverride(req.ServiceChargeRate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	item, cmd, err := cc.Lifecycle.AddItem(c.Request.Context(), services.AddItemRequest{
		CommandID:         id,
		StaffID:           middlewares.StaffID(c),
		ProductID:         req.ProductID,
		Quantity:          req.Quantity,
		Notes:             req.Notes,
		ServiceChargeRate: rate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", gin.H{
		"item":    item,
		"command": cmd,
	})
}

// RemoveItem -> DELETE /commands/:command_id/items/:item_id
func (cc *CommandController) RemoveItem(c *gin.Context) {
	id, ok := paramID(c, "command_id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	rate, err := rateOverride(c.Query("service_charge_rate"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cmd, err := cc.Lifecycle.RemoveItem(c.Request.Context(), services.RemoveItemRequest{
		CommandID:         id,
		StaffID:           middlewares.StaffID(c),
		ItemID:            itemID,
		ServiceChargeRate: rate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", cmd)
}

// CloseCommand -> POST /commands/:command_id/close
func (cc *CommandController) CloseCommand(c *gin.Context) {
	id, ok := paramID(c, "command_id")
	if !ok {
		return
	}
	var req rateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	rate, err := rateOverride(req.ServiceChargeRate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cmd, err := cc.Lifecycle.CloseCommand(c.Request.Context(), services.CloseCommandRequest{
		CommandID:         id,
		StaffID:           middlewares.StaffID(c),
		ServiceChargeRate: rate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Command closed", cmd)
}

// MarkPaid -> POST /commands/:command_id/pay
func (cc *CommandController) MarkPaid(c *gin.Context) {
	id, ok := paramID(c, "command_id")
	if !ok {
		return
	}
	var req struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
		PaidAmount    string `json:"paid_amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cmd, err := cc.Lifecycle.MarkPaid(c.Request.Context(), services.MarkPaidRequest{
		CommandID:     id,
		StaffID:       middlewares.StaffID(c),
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    req.PaidAmount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Command paid", cmd)
}

// DeleteCommand -> DELETE /commands/:command_id
func (cc *CommandController) DeleteCommand(c *gin.Context) {
	id, ok := paramID(c, "command_id")
	if !ok {
		return
	}
	if err := cc.Lifecycle.DeleteCommand(c.Request.Context(), id, middlewares.StaffID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Command deleted", nil)
}
