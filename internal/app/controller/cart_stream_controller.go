package controller

import (
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/tene-backend/internal/app/service"
	"github.com/ikkim/tene-backend/internal/middleware"
	"github.com/ikkim/tene-backend/internal/websocket"
)

type CartStreamController struct {
	hub         *websocket.Hub
	cartService service.CartService
	upgrader    *gorillaws.Upgrader
}

func NewCartStreamController(hub *websocket.Hub, cartService service.CartService, allowedOrigins []string) *CartStreamController {
	return &CartStreamController{
		hub:         hub,
		cartService: cartService,
		upgrader:    websocket.NewUpgrader(allowedOrigins),
	}
}

// Stream upgrades to a websocket that receives the cart view after every change
// GET /api/v1/cart/ws
func (ctrl *CartStreamController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, c.Writer.Header())
	if err != nil {
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	client := websocket.NewClient(ctrl.hub, &websocket.Conn{Conn: conn}, sessionID)
	ctrl.hub.Register(client)

	// current state first so the client never renders a stale cart
	if err := ctrl.hub.SendToSession(sessionID, ctrl.cartService.GetCart(sessionID)); err != nil {
		log.Warn("Failed to send initial cart state", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	go client.WritePump()
	go client.ReadPump()
}
