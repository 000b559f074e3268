package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/broadcast"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 32
)

var ErrSubscriberClosed = errors.New("subscriber is closed")
var ErrSubscriberTooSlow = errors.New("subscriber send buffer is full")

// SubscriberRegistry is the part of the broadcast hub the websocket endpoint needs.
type SubscriberRegistry interface {
	Subscribe(s broadcast.Subscriber)
	Unsubscribe(s broadcast.Subscriber)
	Count() int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type subscribeRequest struct {
	Subscribe string `json:"subscribe"`
}

// wsSubscriber adapts a websocket connection to a broadcast.Subscriber. Sends
// are queued and written by a single writer goroutine so a slow client never
// blocks a broadcast.
type wsSubscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	once sync.Once
	done chan struct{}
}

func newWSSubscriber(conn *websocket.Conn) *wsSubscriber {
	return &wsSubscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (s *wsSubscriber) ID() string {
	return s.id
}

func (s *wsSubscriber) Send(msg []byte) error {
	select {
	case <-s.done:
		return ErrSubscriberClosed
	default:
	}

	select {
	case s.send <- msg:
		return nil
	case <-s.done:
		return ErrSubscriberClosed
	default:
		return ErrSubscriberTooSlow
	}
}

func (s *wsSubscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *wsSubscriber) writePump(logger zerolog.Logger) {
	defer s.close()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}

// readPump consumes client messages until the connection goes away. A
// disconnect ends the loop normally.
func (s *wsSubscriber) readPump(logger zerolog.Logger) {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Debug().Err(err).Msg("websocket closed")
			}
			return
		}

		req := subscribeRequest{}
		if err := json.Unmarshal(msg, &req); err != nil || req.Subscribe == "" {
			continue
		}

		ack, err := json.Marshal(broadcast.NewSubscribedEvent(req.Subscribe))
		if err != nil {
			continue
		}

		if err := s.Send(ack); err != nil {
			logger.Debug().Err(err).Msg("unable to acknowledge subscription")
		}
	}
}

func alertStreamHandler(log zerolog.Logger, registry SubscriberRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		s := newWSSubscriber(conn)
		logger := log.With().Str("subscriber", s.ID()).Logger()

		registry.Subscribe(s)
		logger.Info().Int("subscribers", registry.Count()).Msg("websocket subscriber connected")

		go s.writePump(logger)
		s.readPump(logger)

		registry.Unsubscribe(s)
		logger.Info().Msg("websocket subscriber disconnected")
	}
}
