package handlers

import (
	"restocoach/internal/app"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler mounts /ws. Upgrades are accepted only from the CORS origins; the client
// authenticates over the socket itself, so no bearer header is required here.
func WebSocketHandler(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})

	router.Get("/ws", websocket.New(app.Websocket.HandleWebSocket, websocket.Config{
		Origins:         allowedOrigins(app.Config.CorsAllowOrigins),
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}))
}

// allowedOrigins splits the comma separated CORS setting; empty means any origin.
func allowedOrigins(raw string) []string {
	origins := []string{}
	for origin := range strings.SplitSeq(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
