package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/quizarena/backend/models"
)

// The feed hub pushes each persisted quiz record to dashboard clients watching
// that competition. It is a broadcast-only notification stream.

type Client struct {
	CompetitionID string
	Conn          *websocket.Conn
}

type feedEvent struct {
	UserName  string `json:"userName"`
	Score     int    `json:"score"`
	TimeTaken int    `json:"timeTaken"`
	CreatedAt string `json:"createdAt"`
}

var (
	clients   = make(map[string]map[*websocket.Conn]bool)
	clientsMu sync.RWMutex

	Register   = make(chan *Client)
	Unregister = make(chan *Client)
	broadcast  = make(chan *models.QuizRecord, 64)
)

// PublishRecord queues a freshly persisted record for the feed. A nil record
// or a full queue is dropped silently; the feed is best-effort.
func PublishRecord(record *models.QuizRecord) {
	if record == nil {
		return
	}
	select {
	case broadcast <- record:
	default:
		log.Println("Feed queue full, dropping record broadcast")
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			if clients[client.CompetitionID] == nil {
				clients[client.CompetitionID] = make(map[*websocket.Conn]bool)
			}
			clients[client.CompetitionID][client.Conn] = true
			clientsMu.Unlock()

		case client := <-Unregister:
			clientsMu.Lock()
			if conns, ok := clients[client.CompetitionID]; ok {
				delete(conns, client.Conn)
				if len(conns) == 0 {
					delete(clients, client.CompetitionID)
				}
			}
			clientsMu.Unlock()

		case record := <-broadcast:
			competitionID := ""
			if record.CompetitionID != nil {
				competitionID = *record.CompetitionID
			}

			event := feedEvent{
				UserName:  record.UserName,
				Score:     record.Score,
				TimeTaken: record.TimeTaken,
				CreatedAt: record.CreatedAt.Format("2006-01-02 15:04:05"),
			}

			clientsMu.RLock()
			var dead []*websocket.Conn
			for conn := range clients[competitionID] {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing feed event: %v", err)
					dead = append(dead, conn)
				}
			}
			clientsMu.RUnlock()

			if len(dead) > 0 {
				clientsMu.Lock()
				for _, conn := range dead {
					conn.Close()
					delete(clients[competitionID], conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}
