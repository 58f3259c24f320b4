package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-commands/controllers"
	"github.com/yeremiapane/restaurant-commands/kds"
	"github.com/yeremiapane/restaurant-commands/middlewares"
	"github.com/yeremiapane/restaurant-commands/services"
)

type Deps struct {
	Lifecycle   *services.CommandLifecycle
	Tables      *services.TableService
	Hub         *kds.Hub
	JWTSecret   []byte
	RateLimiter *middlewares.RateLimiter
	CORSOrigin  string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.RateLimit())
	}

	commandCtrl := controllers.NewCommandController(d.Lifecycle)
	tableCtrl := controllers.NewTableController(d.Tables)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(d.JWTSecret))
	{
		api.GET("/tables", tableCtrl.ListTables)
		api.GET("/tables/:table_id", tableCtrl.GetTable)
		api.POST("/tables/:table_id/reserve", tableCtrl.ReserveTable)
		api.POST("/tables/:table_id/unreserve", tableCtrl.UnreserveTable)
		api.POST("/tables/:table_id/commands", commandCtrl.OpenCommand)

		api.GET("/commands/:command_id", commandCtrl.GetCommand)
		api.POST("/commands/:command_id/items", commandCtrl.AddItem)
		api.DELETE("/commands/:command_id/items/:item_id", commandCtrl.RemoveItem)
		api.POST("/commands/:command_id/close", commandCtrl.CloseCommand)
		api.POST("/commands/:command_id/pay", commandCtrl.MarkPaid)
		api.DELETE("/commands/:command_id", commandCtrl.DeleteCommand)
	}

	if d.Hub != nil {
		kdsCtrl := controllers.NewKDSController(d.Hub)
		ws := r.Group("/ws")
		ws.Use(middlewares.WebSocketAuthMiddleware(d.JWTSecret))
		ws.GET("", kdsCtrl.Serve)
	}

	return r
}
