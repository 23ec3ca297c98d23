// Package tokenmon periodically validates the WhatsApp access token.
// Cloud API tokens expire silently; without this check the first sign of
// an expired token is users getting no replies.
package tokenmon

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"kairos/internal/common/errors"
	"kairos/internal/common/logging"
)

// TokenValidator is implemented by the WhatsApp client.
type TokenValidator interface {
	ValidateToken(ctx context.Context) error
}

// Monitor runs the token check on a cron schedule.
type Monitor struct {
	validator TokenValidator
	schedule  string
	cron      *cron.Cron
}

// NewMonitor creates a token monitor. schedule uses cron syntax and
// accepts @every descriptors ("@every 12h").
func NewMonitor(validator TokenValidator, schedule string) *Monitor {
	if schedule == "" {
		schedule = "@every 12h"
	}
	return &Monitor{
		validator: validator,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start schedules the periodic check and runs one immediately so an
// already-expired token is reported at boot, not twelve hours later.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.check); err != nil {
		return errors.ConfigError("invalid token check schedule: " + m.schedule)
	}
	m.cron.Start()
	go m.check()
	logging.Info("whatsapp token monitor started",
		logging.String("schedule", m.schedule))
	return nil
}

// Stop cancels the scheduled checks and waits for a running one.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := m.validator.ValidateToken(ctx)
	switch {
	case err == nil:
		logging.Debug("whatsapp token check passed")
	case errors.IsType(err, errors.ErrTypeAuth):
		logging.Warn("whatsapp access token is expired or invalid, rotate WHATSAPP_API_TOKEN",
			logging.Err(err))
	default:
		logging.Error("whatsapp token check failed", err)
	}
}
