package network

import (
	"log/slog"
	"sync"

	"backend-ecocommute/internal/logging"
)

type Status struct {
	Online        bool    `json:"online"`
	Type          string  `json:"type"`
	EffectiveType string  `json:"effectiveType"`
	Downlink      float64 `json:"downlink"`
	RTT           float64 `json:"rtt"`
}

func DefaultStatus() Status {
	return Status{
		Online:        true,
		Type:          "unknown",
		EffectiveType: "4g",
		Downlink:      10,
		RTT:           50,
	}
}

// Monitor holds the most recently reported connectivity of the client.
type Monitor struct {
	mu     sync.RWMutex
	status Status
	logger *slog.Logger
}

func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Monitor{status: DefaultStatus(), logger: logger}
}

func (m *Monitor) Current() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Update replaces the current status. Empty or non-positive fields fall back
// to the defaults.
func (m *Monitor) Update(s Status) Status {
	def := DefaultStatus()
	if s.Type == "" {
		s.Type = def.Type
	}
	if s.EffectiveType == "" {
		s.EffectiveType = def.EffectiveType
	}
	if s.Downlink <= 0 {
		s.Downlink = def.Downlink
	}
	if s.RTT <= 0 {
		s.RTT = def.RTT
	}

	m.mu.Lock()
	prev := m.status
	m.status = s
	m.mu.Unlock()

	if prev.Online != s.Online || prev.EffectiveType != s.EffectiveType {
		m.logger.Info("connectivity changed", "online", s.Online, "effective_type", s.EffectiveType)
	}
	return s
}

// BandwidthClass buckets the effective connection type.
func (m *Monitor) BandwidthClass() string {
	return bandwidthClass(m.Current().EffectiveType)
}

func bandwidthClass(effectiveType string) string {
	switch effectiveType {
	case "4g":
		return "high"
	case "3g":
		return "medium"
	case "2g", "slow-2g":
		return "low"
	default:
		return "unknown"
	}
}
