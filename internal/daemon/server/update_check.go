package server

import (
	"log"
	"sync"
	"time"

	"github.com/fremvaerk/horalis/internal/config"
	"github.com/fremvaerk/horalis/internal/models"
	"github.com/fremvaerk/horalis/internal/updater"
)

// UpdateState holds the result of the latest update check.
type UpdateState struct {
	mu            sync.RWMutex
	Available     bool
	LatestVersion string
	ReleaseURL    string
	LastChecked   time.Time
}

// StartUpdateCheck runs an update check in a background goroutine when the
// settings ask for one and the last check is old enough.
func (s *Server) StartUpdateCheck(check func() (*updater.UpdateResult, error)) {
	go func() {
		settings, err := config.LoadSettings()
		if err != nil {
			log.Printf("[update] Failed to load settings: %v", err)
			return
		}
		if !settings.Updates.CheckOnStartup {
			return
		}
		now := time.Now()
		if !updater.Due(settings.Updates.CheckFrequency, settings.Updates.LastChecked, now) {
			return
		}

		result, err := check()
		if err != nil {
			log.Printf("[update] Check failed: %v", err)
			return
		}

		// Reload so a concurrent edit of settings.yaml isn't clobbered.
		if _, err := config.UpdateSettings(func(st *models.Settings) {
			st.Updates.LastChecked = &now
		}); err != nil {
			log.Printf("[update] Failed to save last_checked: %v", err)
		}

		s.setUpdateState(result, now)
	}()
}

func (s *Server) setUpdateState(result *updater.UpdateResult, at time.Time) {
	s.updateState.mu.Lock()
	defer s.updateState.mu.Unlock()
	s.updateState.LastChecked = at
	s.updateState.Available = result.Available
	if result.Available {
		s.updateState.LatestVersion = result.LatestVersion
		s.updateState.ReleaseURL = result.ReleaseURL
		log.Printf("[update] Update available: v%s → v%s", result.CurrentVersion, result.LatestVersion)
		return
	}
	log.Printf("[update] Up to date (v%s)", result.CurrentVersion)
}

// GetUpdateState returns the current update state.
func (s *Server) GetUpdateState() (available bool, version, url string) {
	s.updateState.mu.RLock()
	defer s.updateState.mu.RUnlock()
	return s.updateState.Available, s.updateState.LatestVersion, s.updateState.ReleaseURL
}
