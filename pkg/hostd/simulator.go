package hostd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/nyk-lgtm/tli-tracker/pkg/bridge"
	"github.com/nyk-lgtm/tli-tracker/pkg/track"
)

var demoDropTypes = []string{"currency", "equipment", "gem", "map"}

// Simulator generates a synthetic tracking session and pushes it to all
// connected windows, so the overlay can be exercised without a game
// running. State advances once per interval; drops arrive at random.
type Simulator struct {
	srv      *Server
	interval time.Duration
}

// NewSimulator creates a simulator pushing through srv every interval.
func NewSimulator(srv *Server, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Simulator{srv: srv, interval: interval}
}

// Run pushes simulated state until ctx is canceled.
func (sim *Simulator) Run(ctx context.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	st := newDemoState()

	ticker := time.NewTicker(sim.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			advanceDemo(st, rng)
			data, err := json.Marshal(st)
			if err != nil {
				sim.srv.log.Warn("encode demo state", "error", err)
				continue
			}
			sim.srv.PushEvent(bridge.EventState, data)
		}
	}
}

func newDemoState() *track.State {
	return &track.State{
		Initialized: true,
		InMap:       true,
		DisplayMode: "value",
		CurrentMap:  &track.MapStats{},
		Session: &track.SessionStats{
			ID: "demo",
		},
	}
}

func advanceDemo(st *track.State, rng *rand.Rand) {
	st.Advance(time.Second)

	// A drop roughly every five seconds.
	if rng.Intn(5) == 0 {
		n := len(st.Session.Drops) + 1
		value := float64(rng.Intn(40)+1) * 25
		drop := track.Drop{
			ItemID:      fmt.Sprintf("demo-%d", n),
			ItemName:    fmt.Sprintf("Demo Drop %d", n),
			ItemType:    demoDropTypes[rng.Intn(len(demoDropTypes))],
			Quantity:    1,
			Value:       &value,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			PriceStatus: "priced",
		}
		st.Session.Drops = append(st.Session.Drops, drop)
		st.Session.Value += value
		st.Session.Items++
		st.CurrentMap.Value += value
		st.CurrentMap.Items++
	}

	// Roll the map over every couple of minutes of simulated play.
	if st.CurrentMap.Duration >= 120 {
		st.Session.MapCount++
		st.Session.Maps = append(st.Session.Maps, track.MapSummary{
			Index:           st.Session.MapCount,
			TotalValue:      st.CurrentMap.Value,
			DurationSeconds: st.CurrentMap.Duration,
		})
		st.CurrentMap = &track.MapStats{}
	}

	if st.Session.DurationMapping > 0 {
		hours := st.Session.DurationMapping / 3600
		st.Session.ValuePerHour = st.Session.Value / hours
		st.Session.MapsPerHour = float64(st.Session.MapCount) / hours
	}
}
