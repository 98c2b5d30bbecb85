package webserver

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/page-confessions/confession-relay/src/config"
	"github.com/page-confessions/confession-relay/src/moderation"
)

// New builds the ops API: health, watermark inspection/reseed and a manual
// retrieval trigger. Everything except /healthz sits behind the ops token.
func New(cfg config.Config, engine *moderation.Engine, wm *moderation.Watermark) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery(), requestID())

	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := g.Group("/v1", tokenAuth(cfg.OpsToken))

	v1.GET("/watermark", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"lastSeenRow": wm.Current()})
	})

	v1.PUT("/watermark", func(c *gin.Context) {
		var req struct {
			Value int `json:"value" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
		wm.Seed(c.Request.Context(), req.Value)
		log.Printf("ops: watermark reseeded to %d (req %s)", req.Value, c.GetString("reqid"))
		c.JSON(http.StatusOK, gin.H{"lastSeenRow": wm.Current()})
	})

	v1.POST("/check", func(c *gin.Context) {
		var req struct {
			Mode string `json:"mode" binding:"omitempty,oneof=latest unread"`
		}
		// Empty body means "latest".
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}

		var err error
		if req.Mode == "unread" {
			err = engine.CheckUnread(c.Request.Context(), cfg.ModChannelID)
		} else {
			err = engine.CheckLatest(c.Request.Context(), cfg.ModChannelID)
		}
		if err != nil {
			log.Printf("ops: check %s: %v (req %s)", req.Mode, err, c.GetString("reqid"))
			c.JSON(http.StatusBadGateway, gin.H{"err": "retrieval failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lastSeenRow": wm.Current()})
	})

	return g
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("reqid", uuid.NewString())
		c.Next()
	}
}

func tokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "unauthorized"})
			return
		}
		c.Next()
	}
}
