// Package pacer computes how long to sleep to hold a target frame rate and
// reports when the measured rate drifts away from it.
package pacer

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultWakeBuffer is subtracted from every sleep to absorb scheduler
	// wake-up latency.
	DefaultWakeBuffer = 1500 * time.Microsecond

	// DefaultDriftThreshold is the fps difference above which drift is reported.
	DefaultDriftThreshold = 5.0

	// DefaultFPS is the target rate used when none is configured.
	DefaultFPS = 60
)

// FramePeriod returns the time between frames at fps, truncated to whole
// microseconds (60 fps gives 16666us).
func FramePeriod(fps uint32) time.Duration {
	if fps == 0 {
		return 0
	}
	return time.Duration(1_000_000/fps) * time.Microsecond
}

// ComputeWait returns how long to sleep after lastPresent so the next present
// lands on time. It is zero when the next frame is already due and may be
// negative when the remaining time is inside the wake buffer; callers only
// sleep for positive values.
func ComputeWait(now, lastPresent time.Time, fps uint32, wakeBuffer time.Duration) time.Duration {
	nextDue := lastPresent.Add(FramePeriod(fps))
	if !now.Before(nextDue) {
		return 0
	}
	return nextDue.Sub(now) - wakeBuffer
}

// Direction tells whether the loop runs slower or faster than the target.
type Direction int

const (
	// Behind means frames arrive slower than the target rate.
	Behind Direction = iota
	// Ahead means frames arrive faster than the target rate.
	Ahead
)

func (d Direction) String() string {
	if d == Behind {
		return "behind"
	}
	return "ahead"
}

// Drift describes a frame whose measured rate is off target.
type Drift struct {
	ExpectedFPS float64
	ActualFPS   float64
	Direction   Direction
}

// Magnitude returns the absolute fps difference.
func (d Drift) Magnitude() float64 {
	return math.Abs(d.ActualFPS - d.ExpectedFPS)
}

func (d Drift) String() string {
	sign := '+'
	if d.Direction == Behind {
		sign = '-'
	}
	return fmt.Sprintf("%.2f %c %.2f fps (%.2f fps)", d.ExpectedFPS, sign, d.Magnitude(), d.ActualFPS)
}

// CheckDrift compares two rates and returns a Drift when they differ by
// more than threshold.
func CheckDrift(expectedFPS, actualFPS, threshold float64) (Drift, bool) {
	d := Drift{ExpectedFPS: expectedFPS, ActualFPS: actualFPS, Direction: Ahead}
	if actualFPS < expectedFPS {
		d.Direction = Behind
	}
	if d.Magnitude() > threshold {
		return d, true
	}
	return Drift{}, false
}

// ReportDrift measures the rate between two consecutive presents against
// fps using DefaultDriftThreshold. Presents at the same instant carry no
// measurement and never report.
func ReportDrift(lastPresent, previousPresent time.Time, fps uint32) (Drift, bool) {
	return reportDrift(lastPresent, previousPresent, fps, DefaultDriftThreshold)
}

func reportDrift(lastPresent, previousPresent time.Time, fps uint32, threshold float64) (Drift, bool) {
	period := FramePeriod(fps)
	elapsed := lastPresent.Sub(previousPresent).Microseconds()
	if period <= 0 || elapsed <= 0 {
		return Drift{}, false
	}
	expected := 1_000_000 / float64(period.Microseconds())
	actual := 1_000_000 / float64(elapsed)
	return CheckDrift(expected, actual, threshold)
}
