// Package sos composes and records emergency dispatches: it fetches the
// device position, builds the alert message with the user's critical
// medical info, logs the event, and hands the message off as a share link.
package sos

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/just-rehan/vitality-companion/internal/errors"
	"github.com/just-rehan/vitality-companion/internal/tracker"
	"go.uber.org/zap"
)

// Geolocator fetches the device's current position, single-shot
type Geolocator interface {
	Locate(ctx context.Context) (tracker.Coordinates, error)
}

// GeolocatorFunc adapts a function to the Geolocator interface
type GeolocatorFunc func(ctx context.Context) (tracker.Coordinates, error)

func (f GeolocatorFunc) Locate(ctx context.Context) (tracker.Coordinates, error) {
	return f(ctx)
}

// Dispatch is the outcome of a successful SOS
type Dispatch struct {
	Event    tracker.SOSEvent `json:"event"`
	Message  string           `json:"message"`
	ShareURL string           `json:"share_url"`
}

// Coordinator runs the two-state dispatch flow: Idle -> Locating ->
// Dispatched or back to Idle on failure. A second dispatch while one is
// locating is rejected, not queued; no retry is attempted automatically.
type Coordinator struct {
	tracker       *tracker.Tracker
	logger        *zap.Logger
	mapLinkBase   string
	shareLinkBase string

	mu       sync.Mutex
	locating bool
}

// New creates a Coordinator
func New(tr *tracker.Tracker, logger *zap.Logger, mapLinkBase, shareLinkBase string) *Coordinator {
	return &Coordinator{
		tracker:       tr,
		logger:        logger,
		mapLinkBase:   mapLinkBase,
		shareLinkBase: shareLinkBase,
	}
}

// Dispatch requests the current position from geo and, on success, records
// an SOSEvent and returns the composed alert. On location failure nothing
// is recorded and the coordinator returns to idle.
func (c *Coordinator) Dispatch(ctx context.Context, userName string, geo Geolocator) (*Dispatch, error) {
	c.mu.Lock()
	if c.locating {
		c.mu.Unlock()
		return nil, errors.ErrDispatchInFlight
	}
	c.locating = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.locating = false
		c.mu.Unlock()
	}()

	coords, err := geo.Locate(ctx)
	if err != nil {
		c.logger.Warn("SOS location fetch failed", zap.Error(err))
		return nil, errors.Wrap(err, "SOS_001", "location unavailable")
	}

	message := c.ComposeMessage(userName, coords, c.tracker.Allergies())

	event := tracker.SOSEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Location:  coords,
		Status:    tracker.SOSDispatched,
	}

	if err := c.tracker.RecordSOSEvent(event); err != nil {
		return nil, err
	}

	c.logger.Info("SOS dispatched",
		zap.String("event_id", event.ID),
		zap.Float64("lat", coords.Lat),
		zap.Float64("lng", coords.Lng),
	)

	return &Dispatch{
		Event:    event,
		Message:  message,
		ShareURL: c.shareLinkBase + url.QueryEscape(message),
	}, nil
}

// Locating reports whether a dispatch is currently fetching a position
func (c *Coordinator) Locating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locating
}

// ComposeMessage builds the emergency alert text: template, user name, map
// link, and a flattened allergy summary.
func (c *Coordinator) ComposeMessage(userName string, coords tracker.Coordinates, allergies []tracker.Allergy) string {
	mapLink := fmt.Sprintf("%s%v,%v", c.mapLinkBase, coords.Lat, coords.Lng)

	allergyText := "None"
	if len(allergies) > 0 {
		parts := make([]string, 0, len(allergies))
		for _, a := range allergies {
			parts = append(parts, fmt.Sprintf("%s (%s)", a.Name, a.Severity))
		}
		allergyText = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(
		"🚨 EMERGENCY ALERT 🚨\nUser: %s\nI need immediate assistance!\n\nLocation: %s\n\nCritical Medical Info:\nAllergies: %s\n\nSent via VitalPulse.",
		userName, mapLink, allergyText,
	)
}
