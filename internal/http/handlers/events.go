package handlers

import (
	"net/http"
	"strings"

	"busoffice/internal/events"

	"github.com/gin-gonic/gin"
)

var wsHub *events.Hub

// SetEventHub stores the hub used for websocket subscriptions.
func SetEventHub(h *events.Hub) {
	wsHub = h
	SetEventPublisher(h)
}

// GET /api/ws?bus_id=&schedule_id=
// Upgrades to a websocket and streams booking/seat events for the given
// trip. Clients can subscribe to more trips with {"type":"subscribe",...}.
func EventStream(c *gin.Context) {
	if wsHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream not available"})
		return
	}

	topics := []string{}
	busID := strings.TrimSpace(c.Query("bus_id"))
	scheduleID := strings.TrimSpace(c.Query("schedule_id"))
	if busID != "" && scheduleID != "" {
		topics = append(topics, events.Topic(busID, scheduleID))
	}

	if err := wsHub.ServeWS(c.Writer, c.Request, topics); err != nil {
		// upgrade failed, response already written by the upgrader
		return
	}
}
