package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/Dicode/internal/adapters/signal"
	"github.com/dkeye/Dicode/internal/app/orch"
	"github.com/dkeye/Dicode/internal/config"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type presenceEntry struct {
	UserID   domain.UserID `json:"userId"`
	Role     domain.Role   `json:"role"`
	JoinedAt time.Time     `json:"joinedAt"`
}

// presence lists the live connections of a room. Only users connected to
// the room may look.
func presence(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := domain.RoomID(c.Param("roomId"))
		if _, ok := o.Registry.InRoom(currentUser(c), roomID); !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "not in room"})
			return
		}
		entries := o.Registry.MembersOfRoom(roomID)
		out := make([]presenceEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, presenceEntry{UserID: e.UserID, Role: e.Role, JoinedAt: e.JoinedAt})
		}
		c.JSON(http.StatusOK, gin.H{"roomId": roomID, "users": out})
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	o *orch.Orchestrator,
	ctrl *signal.SignalWSController,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": o.Registry.Count()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api", AuthMiddleware(cfg.Auth.Secret, cfg.Auth.Cookie))
	api.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c, currentUser(c))
	})
	api.GET("/rooms/:roomId/presence", presence(o))

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
