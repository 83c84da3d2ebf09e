package core

import (
	"log"
	"time"
)

// Housekeeper periodically logs relay load.
type Housekeeper struct {
	server   *Server
	interval time.Duration
	stopChan chan struct{}

	lastPeers   int
	lastRelayed int
}

func NewHousekeeper(server *Server, interval time.Duration) *Housekeeper {
	return &Housekeeper{
		server:   server,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (h *Housekeeper) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	log.Printf("[relay] housekeeping every %s", h.interval)

	for {
		select {
		case <-h.stopChan:
			log.Println("[relay] housekeeping stopped")
			return
		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *Housekeeper) Stop() {
	close(h.stopChan)
}

// tick logs a summary when anything changed since the last one.
func (h *Housekeeper) tick() {
	rooms := h.server.Rooms()
	peers, relayed := 0, 0
	waiting := 0
	for _, r := range rooms {
		peers += r.Peers
		relayed += r.Relayed
		if r.Peers < h.server.capacity {
			waiting++
		}
	}
	if peers == h.lastPeers && relayed == h.lastRelayed {
		return
	}
	rate := float64(relayed-h.lastRelayed) / h.interval.Seconds()
	if relayed < h.lastRelayed {
		rate = float64(relayed) / h.interval.Seconds()
	}
	h.lastPeers, h.lastRelayed = peers, relayed
	log.Printf("[relay] %d peers in %d rooms (%d waiting), %.1f datagrams/s, %d dropped",
		peers, len(rooms), waiting, rate, h.server.Dropped())
}
