package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
)

func TestBroadcastWithoutSubscribers(t *testing.T) {
	is := is.New(t)
	h := NewHub()

	h.Broadcast(context.Background(), NewPingEvent(time.Now()))
	is.Equal(h.Count(), 0)
}

func TestThatAFailingSubscriberDoesNotStopDelivery(t *testing.T) {
	is := is.New(t)
	h := NewHub()

	failing := newSubscriberMock("failing", errors.New("broken pipe"))
	healthy := newSubscriberMock("healthy", nil)

	h.Subscribe(failing)
	h.Subscribe(healthy)

	h.Broadcast(context.Background(), NewSubscribedEvent("device-01"))

	is.Equal(len(failing.SendCalls()), 1)
	is.Equal(len(healthy.SendCalls()), 1)
	is.Equal(string(healthy.SendCalls()[0].Msg), `{"type":"subscribed","device_id":"device-01"}`)
	is.Equal(h.Count(), 2)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	is := is.New(t)
	h := NewHub()

	s := newSubscriberMock("s1", nil)
	h.Subscribe(s)
	h.Unsubscribe(s)
	h.Unsubscribe(s)

	is.Equal(h.Count(), 0)

	h.Broadcast(context.Background(), NewPingEvent(time.Now()))
	is.Equal(len(s.SendCalls()), 0)
}

func TestUnsubscribeDuringBroadcast(t *testing.T) {
	is := is.New(t)
	h := NewHub()

	var other *SubscriberMock
	remover := &SubscriberMock{
		IDFunc: func() string { return "remover" },
		SendFunc: func(msg []byte) error {
			h.Unsubscribe(other)
			return nil
		},
	}
	other = newSubscriberMock("other", nil)

	h.Subscribe(remover)
	h.Subscribe(other)

	h.Broadcast(context.Background(), NewPingEvent(time.Now()))

	is.Equal(len(remover.SendCalls()), 1)
	is.Equal(h.Count(), 1)
	is.True(len(other.SendCalls()) <= 1)
}

func TestConcurrentSubscribeAndBroadcast(t *testing.T) {
	is := is.New(t)
	h := NewHub()
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		s := newSubscriberMock(fmt.Sprintf("s%d", i), nil)

		go func() {
			defer wg.Done()
			h.Subscribe(s)
			h.Unsubscribe(s)
		}()

		go func() {
			defer wg.Done()
			h.Broadcast(ctx, NewPingEvent(time.Now()))
		}()
	}

	wg.Wait()
	is.Equal(h.Count(), 0)
}

func TestThatEventsAreMirrored(t *testing.T) {
	is := is.New(t)

	m := &mirror{}
	h := NewHub(m)

	h.Broadcast(context.Background(), NewPingEvent(time.Now()))

	is.Equal(m.events, []string{"ping"})
}

func TestAlertEventShape(t *testing.T) {
	is := is.New(t)

	zero := 0.0
	lon := 18.06
	cet := time.FixedZone("CET", 3600)

	e := NewAlertEvent(alerts.Alert{
		ID:           7,
		DeviceID:     "device-01",
		Timestamp:    time.Date(2024, 5, 1, 13, 0, 0, 0, cet),
		Severity:     "HIGH",
		ShortMessage: "msg",
		Lat:          &zero,
		Lon:          &lon,
		MQ3:          600,
		MQ135:        200,
		Notified:     true,
	})

	b, err := json.Marshal(e)
	is.NoErr(err)
	is.Equal(string(b), `{"type":"new_alert","data":{"id":7,"device_id":"device-01","ts":"2024-05-01T12:00:00Z","severity":"HIGH","short_message":"msg","lat":null,"lon":18.06,"mq3":600,"mq135":200,"notified":true}}`)
}

func TestPingEventShape(t *testing.T) {
	is := is.New(t)

	b, err := json.Marshal(NewPingEvent(time.Date(2024, 5, 1, 12, 0, 0, 500000000, time.UTC)))
	is.NoErr(err)
	is.Equal(string(b), `{"type":"ping","server_time":"2024-05-01T12:00:00.5Z"}`)
}

func TestHeartbeatSendsPingsUntilStopped(t *testing.T) {
	is := is.New(t)
	h := NewHub()

	pings := make(chan []byte, 10)
	s := &SubscriberMock{
		IDFunc: func() string { return "s1" },
		SendFunc: func(msg []byte) error {
			select {
			case pings <- msg:
			default:
			}
			return nil
		},
	}
	h.Subscribe(s)

	hb := NewHeartbeat(h, 10*time.Millisecond)
	hb.Start(context.Background())

	select {
	case msg := <-pings:
		ping := map[string]string{}
		is.NoErr(json.Unmarshal(msg, &ping))
		is.Equal(ping["type"], "ping")
	case <-time.After(2 * time.Second):
		t.Fatal("no ping received")
	}

	hb.Stop()
	hb.Stop()

	sent := len(s.SendCalls())
	time.Sleep(50 * time.Millisecond)
	is.Equal(len(s.SendCalls()), sent)
}

func TestThatStopAbortsAPendingWait(t *testing.T) {
	is := is.New(t)

	hb := NewHeartbeat(NewHub(), time.Hour)
	hb.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		hb.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat did not stop")
	}

	is.Equal(NewHeartbeat(nil, 0).interval, HeartbeatInterval)
}

type mirror struct {
	events []string
}

func (m *mirror) Publish(event string, data any) error {
	m.events = append(m.events, event)
	return nil
}

func newSubscriberMock(id string, err error) *SubscriberMock {
	return &SubscriberMock{
		IDFunc: func() string { return id },
		SendFunc: func(msg []byte) error {
			return err
		},
	}
}
