package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is the last sample of host resource usage relevant to the
// document store.
type SystemStats struct {
	DiskTotal   uint64    `json:"diskTotal"`
	DiskUsed    uint64    `json:"diskUsed"`
	DiskPercent float64   `json:"diskPercent"`
	MemTotal    uint64    `json:"memTotal"`
	MemUsed     uint64    `json:"memUsed"`
	MemPercent  float64   `json:"memPercent"`
	SampledAt   time.Time `json:"sampledAt"`
}

// UsageUpdater periodically samples disk usage of the data root and host
// memory, keeping the latest sample for the stats endpoint and raising an
// alert event when disk usage runs high.
type UsageUpdater struct {
	dataRoot string
	eventSvc services.EventServiceProvider
	ticker   *time.Ticker
	done     chan bool

	mu            sync.RWMutex
	latest        SystemStats
	lastDiskAlert time.Time
}

// NewUsageUpdater creates a new UsageUpdater watching the given data root.
func NewUsageUpdater(dataRoot string, eventSvc services.EventServiceProvider) *UsageUpdater {
	return &UsageUpdater{
		dataRoot: dataRoot,
		eventSvc: eventSvc,
		done:     make(chan bool),
	}
}

// Run starts the periodic sampling.
func (u *UsageUpdater) Run() {
	log.Info().Msg("Starting background usage updater...")
	u.ticker = time.NewTicker(30 * time.Second)
	defer u.ticker.Stop()

	// Run once immediately on start
	u.sample()

	for {
		select {
		case <-u.done:
			log.Info().Msg("Stopping background usage updater.")
			return
		case <-u.ticker.C:
			u.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (u *UsageUpdater) Stop() {
	u.done <- true
}

// Latest returns the most recent sample.
func (u *UsageUpdater) Latest() SystemStats {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.latest
}

func (u *UsageUpdater) sample() {
	stats := SystemStats{SampledAt: time.Now()}

	if usage, err := disk.Usage(u.dataRoot); err != nil {
		log.Warn().Err(err).Str("path", u.dataRoot).Msg("UsageUpdater: Could not sample disk usage")
	} else {
		stats.DiskTotal = usage.Total
		stats.DiskUsed = usage.Used
		stats.DiskPercent = usage.UsedPercent
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("UsageUpdater: Could not sample memory usage")
	} else {
		stats.MemTotal = vm.Total
		stats.MemUsed = vm.Used
		stats.MemPercent = vm.UsedPercent
	}

	u.mu.Lock()
	u.latest = stats
	u.mu.Unlock()

	u.checkAndAlertForHighDisk(stats)
}

func (u *UsageUpdater) checkAndAlertForHighDisk(stats SystemStats) {
	const highDiskThreshold = 90.0
	const alertCooldown = 15 * time.Minute

	if stats.DiskPercent <= highDiskThreshold {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if time.Since(u.lastDiskAlert) < alertCooldown {
		return
	}
	u.lastDiskAlert = time.Now()

	msg := fmt.Sprintf("High disk usage (%.1f%%) on the document store volume.", stats.DiskPercent)
	if err := u.eventSvc.CreateEvent("system.alert.disk", "warn", msg, nil); err != nil {
		log.Error().Err(err).Msg("UsageUpdater: Failed to record disk alert event")
	}
}
