package ws

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set Authorization headers on websocket dials, so the
	// token travels as a query parameter and origins are not restricted here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades GET /ws requests. The access token is passed as a
// `token` query parameter and validated with the same JWT secret as the
// REST API.
func Handler(hub *Hub, auth service.AuthService, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseAccessToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("Websocket upgrade failed: %v", err)
			return
		}

		client := newClient(hub, conn, claims.Subject, claims.Role == entity.RoleAdmin)
		hub.register(client)

		go client.writePump()
		go client.readPump()
	}
}
