package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

const wsPongWait = 60 * time.Second

type RealtimeController struct {
	RT       *services.RealtimeHub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewRealtimeController accepts upgrades from allowedOrigins; "*" allows any.
func NewRealtimeController(rt *services.RealtimeHub, allowedOrigins []string, log *zap.Logger) *RealtimeController {
	return &RealtimeController{
		RT:  rt,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// GET /ws/notifications
func (rc *RealtimeController) NotificationsWS(c *gin.Context) {
	uid := currentUserID(c)

	conn, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rc.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := services.NewWSClient(uid, conn)
	rc.RT.Register(cl)
	go cl.WritePump()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// read loop ends on client close or error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
