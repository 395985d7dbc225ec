package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/supportcentre/supportcentre-go/internal/application/services"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/messaging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
)

// SysOpHandlers handles sysop dashboard authentication, statistics, and the
// live feedback stream.
type SysOpHandlers struct {
	sysopService *services.SysOpService
	broadcaster  *messaging.Broadcaster
	logger       *logging.ChanneledLogger
	upgrader     websocket.Upgrader
}

// NewSysOpHandlers creates new sysop handlers
func NewSysOpHandlers(sysopService *services.SysOpService, broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger) *SysOpHandlers {
	return &SysOpHandlers{
		sysopService: sysopService,
		broadcaster:  broadcaster,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard may be served from any host embedding it.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Login handles sysop authentication and issues a bearer token.
func (h *SysOpHandlers) Login(c *gin.Context) {
	var request struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.sysopService.Login(request.Password)
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// GetActivityStats returns dashboard statistics across every resource.
func (h *SysOpHandlers) GetActivityStats(c *gin.Context) {
	stats, err := h.sysopService.GetActivityStats()
	if err != nil {
		h.logger.SysOp().Error("Activity stats request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLogLevels returns the current level of every log channel.
func (h *SysOpHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.sysopService.GetLogLevels()})
}

// SetLogLevel changes one channel's level at runtime.
func (h *SysOpHandlers) SetLogLevel(c *gin.Context) {
	var request struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel and level are required"})
		return
	}

	if err := h.sysopService.SetLogLevel(request.Channel, request.Level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "channel": request.Channel, "level": request.Level})
}

// StreamFeedback upgrades to a websocket and registers the dashboard client
// with the broadcaster for live feedback updates.
func (h *SysOpHandlers) StreamFeedback(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.SysOp().Error("Websocket upgrade failed", "error", err)
		return
	}

	client := &messaging.Client{
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	h.broadcaster.Register(client)
	h.logger.SysOp().Info("Dashboard client connected", "remoteAddr", conn.RemoteAddr().String())

	go client.WritePump()

	// Drain the read side so pings and close frames are processed. The
	// stream is one-way; anything the client sends is discarded.
	go func() {
		defer h.broadcaster.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// AuthMiddleware protects sysop endpoints with the bearer token issued by
// Login.
func (h *SysOpHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			// Websocket clients cannot set headers from the browser, so
			// the stream endpoint also accepts the token as a query param.
			token = c.Query("token")
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if err := h.sysopService.ValidateToken(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Next()
	}
}
