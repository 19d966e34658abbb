package resync

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTrackerReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 100, 50)
	tracker.Start()

	tracker.Update(10)
	assert.Empty(t, out.String(), "below the report interval, nothing is written")

	tracker.Update(50)
	assert.Contains(t, out.String(), "50/100")
	assert.Contains(t, out.String(), "50.0%")
}

func TestProgressTrackerFinish(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 100)
	tracker.Start()
	tracker.Update(3)
	tracker.Finish()

	assert.Contains(t, out.String(), "10/10")
	assert.Contains(t, out.String(), "100.0%")
}

func TestProgressTrackerCapsAtTotal(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 5, 1)
	tracker.Start()
	tracker.Update(9)

	assert.Contains(t, out.String(), "5/5")
}

func TestProgressTrackerIgnoresUpdatesBeforeStart(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 1)

	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, out.String())
	assert.Zero(t, tracker.Elapsed())
}
