package notifications

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	config "github.com/edukit/quizdesk/configs"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	QuizExchange            = "quiz.events"
	QuizSubmittedRoutingKey = "quiz.submitted"
)

type EventPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

var Events *EventPublisher

// InitEventPublisher dials the broker named by AMQP_URL. Absence of the
// variable or a failed dial leaves Events nil and the publish helpers
// become no-ops: event delivery is best-effort by contract.
func InitEventPublisher() {
	url := config.Config("AMQP_URL")
	if url == "" {
		log.Println("⚠️ Event publisher not configured. AMQP_URL is not set.")
		Events = nil
		return
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("🔥 Failed to connect to message broker: %v", err)
		Events = nil
		return
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("🔥 Failed to open broker channel: %v", err)
		conn.Close()
		Events = nil
		return
	}

	err = ch.ExchangeDeclare(
		QuizExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("🔥 Failed to declare exchange %s: %v", QuizExchange, err)
		ch.Close()
		conn.Close()
		Events = nil
		return
	}

	Events = &EventPublisher{conn: conn, channel: ch}
	log.Println("✅ Event publisher initialized successfully.")
}

type quizSubmittedEvent struct {
	StudentID   string    `json:"student_id"`
	QuizID      string    `json:"quiz_id"`
	AnswerCount int       `json:"answer_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// PublishQuizSubmitted emits a quiz.submitted event. Fire-and-forget: any
// failure is logged and swallowed so it can never fail the submission that
// triggered it.
func PublishQuizSubmitted(studentID, quizID uuid.UUID, answerCount int) {
	if Events == nil {
		return
	}

	body, err := json.Marshal(quizSubmittedEvent{
		StudentID:   studentID.String(),
		QuizID:      quizID.String(),
		AnswerCount: answerCount,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("🔥 Failed to marshal quiz.submitted event: %v", err)
		return
	}

	Events.mu.Lock()
	err = Events.channel.Publish(
		QuizExchange,
		QuizSubmittedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	Events.mu.Unlock()
	if err != nil {
		log.Printf("🔥 Failed to publish quiz.submitted event: %v", err)
	}
}
