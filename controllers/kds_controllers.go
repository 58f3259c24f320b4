package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-commands/kds"
	"github.com/yeremiapane/restaurant-commands/middlewares"
)

type KDSController struct {
	Hub      *kds.Hub
	Upgrader websocket.Upgrader
}

func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve -> GET /ws?token=...
func (kc *KDSController) Serve(c *gin.Context) {
	role := c.GetString(middlewares.CtxRole)
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := kc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	kc.Hub.Register(ws, c.GetUint(middlewares.CtxRestaurantID), role)

	// Screens only listen; reading keeps the close handshake working.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.Hub.Unregister(ws)
}
