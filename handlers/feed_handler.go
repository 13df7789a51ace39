package handlers

import (
	"log"

	websocketcontrib "github.com/gofiber/contrib/websocket"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/websocket"
)

// ServeFeed streams new submissions for one competition to connected clients.
// The feed is read-only, so no auth handshake is required.
func ServeFeed(c *websocketcontrib.Conn) {
	competitionID := c.Params("competitionId")

	var count int64
	if err := database.DB.Model(&models.Competition{}).Where("id = ?", competitionID).Count(&count).Error; err != nil || count == 0 {
		_ = c.WriteJSON(map[string]string{"error": "Competition not found"})
		c.Close()
		return
	}

	client := &websocket.Client{CompetitionID: competitionID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	// Read loop only to detect disconnects; incoming frames are ignored.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				return
			}
			log.Printf("Feed connection closed: %v", err)
			return
		}
	}
}
