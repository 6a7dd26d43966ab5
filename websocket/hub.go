package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/edukit/quizdesk/database"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// SubmissionNotice is pushed to the teachers of the quiz's group when a
// student submits.
type SubmissionNotice struct {
	Event       string     `json:"event"`
	QuizID      uuid.UUID  `json:"quiz_id"`
	StudentID   uuid.UUID  `json:"student_id"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *SubmissionNotice, 16)

// NotifyQuizSubmitted enqueues a notice without ever blocking the caller;
// if the hub is saturated the notice is dropped and logged.
func NotifyQuizSubmitted(quizID, studentID uuid.UUID, groupID *uuid.UUID) {
	notice := &SubmissionNotice{
		Event:       "quiz_submitted",
		QuizID:      quizID,
		StudentID:   studentID,
		GroupID:     groupID,
		SubmittedAt: time.Now().UTC(),
	}
	select {
	case Broadcast <- notice:
	default:
		log.Printf("Dropping quiz_submitted notice for quiz %s: hub busy", quizID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case notice := <-Broadcast:
			deliver(notice)
		}
	}
}

func deliver(notice *SubmissionNotice) {
	recipients := recipientIDs(notice)
	if len(recipients) == 0 {
		return
	}

	var broken []uuid.UUID
	clientsMu.RLock()
	for _, id := range recipients {
		if conn, ok := clients[id]; ok {
			if err := conn.WriteJSON(notice); err != nil {
				log.Printf("Error sending notice to client %s: %v", id, err)
				conn.Close()
				broken = append(broken, id)
			}
		}
	}
	clientsMu.RUnlock()

	if len(broken) > 0 {
		clientsMu.Lock()
		for _, id := range broken {
			delete(clients, id)
		}
		clientsMu.Unlock()
	}
}

// recipientIDs resolves who should hear about a notice: the teachers of the
// quiz's group, or every connected admin when the quiz has no group.
func recipientIDs(notice *SubmissionNotice) []uuid.UUID {
	if notice.GroupID == nil {
		var ids []uuid.UUID
		err := database.DB.
			Table("users").
			Where("role = ?", "admin").
			Pluck("id", &ids).Error
		if err != nil {
			log.Printf("Error fetching admin IDs: %v", err)
			return nil
		}
		return ids
	}

	var ids []uuid.UUID
	err := database.DB.
		Table("group_teachers").
		Where("group_id = ?", *notice.GroupID).
		Pluck("user_id", &ids).Error
	if err != nil {
		log.Printf("Error fetching teacher IDs for group %s: %v", *notice.GroupID, err)
		return nil
	}
	return ids
}
