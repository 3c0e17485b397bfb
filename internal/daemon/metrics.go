package daemon

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics counts daemon traffic. All fields are safe for concurrent use.
type Metrics struct {
	eventsSent       atomic.Int64
	eventsReceived   atomic.Int64
	refreshesTotal   atomic.Int64
	connectedClients atomic.Int32
	startTime        time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) IncEventsSent()                   { m.eventsSent.Add(1) }
func (m *Metrics) IncEventsReceived()               { m.eventsReceived.Add(1) }
func (m *Metrics) IncRefreshesTotal()               { m.refreshesTotal.Add(1) }
func (m *Metrics) SetConnectedClients(count int32) { m.connectedClients.Store(count) }

// MetricsSnapshot is a point-in-time copy of the counters
type MetricsSnapshot struct {
	EventsSent       int64     `json:"events_sent"`
	EventsReceived   int64     `json:"events_received"`
	RefreshesTotal   int64     `json:"refreshes_total"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:       m.eventsSent.Load(),
		EventsReceived:   m.eventsReceived.Load(),
		RefreshesTotal:   m.refreshesTotal.Load(),
		ConnectedClients: m.connectedClients.Load(),
		StartTime:        m.startTime,
		Uptime:           time.Since(m.startTime).Round(time.Second).String(),
	}
}

// LogValue lets the snapshot be logged as a slog group
func (s MetricsSnapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("events_sent", s.EventsSent),
		slog.Int64("events_received", s.EventsReceived),
		slog.Int64("refreshes_total", s.RefreshesTotal),
		slog.Int("connected_clients", int(s.ConnectedClients)),
		slog.String("uptime", s.Uptime),
	)
}
