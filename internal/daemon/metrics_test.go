package daemon

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_ConcurrentUpdates(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncEventsSent()
			m.IncEventsReceived()
			m.IncRefreshesTotal()
		}()
	}
	wg.Wait()
	m.SetConnectedClients(4)

	snap := m.GetSnapshot()
	assert.Equal(t, int64(50), snap.EventsSent)
	assert.Equal(t, int64(50), snap.EventsReceived)
	assert.Equal(t, int64(50), snap.RefreshesTotal)
	assert.Equal(t, int32(4), snap.ConnectedClients)
	assert.NotEmpty(t, snap.Uptime)
}
