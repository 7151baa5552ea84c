package libtracker

import "errors"

// A Source delivers raw input reports. Poll must never block: it returns whatever reports
// have arrived since the previous call, possibly none.
type Source interface {
	Poll() ([][]byte, error)
	Close() error
}

// Tracker turns a report source into orientation samples.
type Tracker struct {
	source   Source
	fusion   *Fusion
	received bool
	detached bool
}

// NewTracker attaches a fusion filter to a report source.
func NewTracker(source Source) *Tracker {
	return &Tracker{
		source: source,
		fusion: NewFusion(),
	}
}

// Attached reports whether the tracker still has a live source.
func (t *Tracker) Attached() bool {
	return t.source != nil && !t.detached
}

// Sample drains pending reports and returns the latest yaw, pitch and roll in radians.
//
// ok is false until the first sensors report arrives, and permanently false once the source
// has failed.
func (t *Tracker) Sample() (yaw, pitch, roll float32, ok bool) {
	if !t.Attached() {
		return 0, 0, 0, false
	}

	reports, err := t.source.Poll()

	if err != nil {
		logger.Errorf("tracker source failed, detaching: %s", err.Error())
		t.detach()

		return 0, 0, 0, false
	}

	for _, report := range reports {
		msg, err := DecodeSensors(report)

		if err != nil {
			if !errors.Is(err, ErrNotSensorsReport) {
				logger.Debugf("dropping report: %s", err.Error())
			}

			continue
		}

		t.fusion.HandleMessage(msg)
		t.received = true
	}

	if !t.received {
		return 0, 0, 0, false
	}

	yaw, pitch, roll = t.fusion.Euler()
	return yaw, pitch, roll, true
}

// Reset recentres the orientation.
func (t *Tracker) Reset() {
	t.fusion.Reset()
}

// Close releases the source.
func (t *Tracker) Close() error {
	if t.source == nil || t.detached {
		return nil
	}

	t.detached = true
	return t.source.Close()
}

func (t *Tracker) detach() {
	t.detached = true

	if err := t.source.Close(); err != nil {
		logger.Debugf("failed to close tracker source: %s", err.Error())
	}
}
