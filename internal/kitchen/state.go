package kitchen

import (
	"time"

	"kitchensim/internal/models"
)

// WashTiming holds the durations of the scripted wash stages. All zero
// collapses a wash into an immediate transition.
type WashTiming struct {
	ToSink   time.Duration `yaml:"to_sink"`
	AtSink   time.Duration `yaml:"at_sink"`
	ToBurner time.Duration `yaml:"to_burner"`
}

// DefaultWashTiming returns 0.8s to the sink, 2s washing, 0.8s back
func DefaultWashTiming() WashTiming {
	return WashTiming{
		ToSink:   800 * time.Millisecond,
		AtSink:   2 * time.Second,
		ToBurner: 800 * time.Millisecond,
	}
}

// Total is the time a wok spends away from its burner
func (t WashTiming) Total() time.Duration {
	return t.ToSink + t.AtSink + t.ToBurner
}

func setState(w *models.Wok, state models.WokState, now time.Duration) {
	if w.State == state {
		return
	}
	w.State = state
	w.StateEnteredAt = now
}

func setPosition(w *models.Wok, pos models.WokPosition, at time.Duration) {
	w.Position = pos
	w.PositionEnteredAt = at
}

func heatOn(w *models.Wok, now time.Duration) {
	if w.IsOn {
		return
	}
	w.IsOn = true
	since := now
	w.HeatOnSince = &since
	w.HeatOffSince = nil
}

func heatOff(w *models.Wok, now time.Duration) {
	if !w.IsOn {
		return
	}
	w.IsOn = false
	since := now
	w.HeatOffSince = &since
	w.HeatOnSince = nil
}

// startWash sends a wok to the sink.
func startWash(w *models.Wok, now time.Duration, timing WashTiming) {
	w.ClearSession()
	setPosition(w, models.PositionMovingToSink, now)
	advancePosition(w, now, timing)
}

// advancePosition moves a washing wok through its stages. Stage boundaries
// are computed from the time the previous stage began, so a tick that
// covers several boundaries lands on the right stage.
func advancePosition(w *models.Wok, now time.Duration, timing WashTiming) {
	for {
		elapsed := now - w.PositionEnteredAt
		switch w.Position {
		case models.PositionMovingToSink:
			if elapsed < timing.ToSink {
				return
			}
			arrived := w.PositionEnteredAt + timing.ToSink
			setPosition(w, models.PositionAtSink, arrived)
			setState(w, models.WokWet, arrived)
			w.Temperature = models.AmbientTemperature
			w.PeakTemperature = models.AmbientTemperature
		case models.PositionAtSink:
			if elapsed < timing.AtSink {
				return
			}
			setPosition(w, models.PositionMovingToBurner, w.PositionEnteredAt+timing.AtSink)
		case models.PositionMovingToBurner:
			if elapsed < timing.ToBurner {
				return
			}
			setPosition(w, models.PositionAtBurner, w.PositionEnteredAt+timing.ToBurner)
		default:
			return
		}
	}
}

// applyTransitions derives the wok state from its temperature after a
// thermal step. It reports whether the wok just burned.
func applyTransitions(w *models.Wok, now time.Duration, cfg ThermalConfig) bool {
	switch w.State {
	case models.WokClean, models.WokOverheating, models.WokDirty:
		if w.Temperature >= cfg.BurnAt {
			setState(w, models.WokBurned, now)
			return true
		}
	}

	switch w.State {
	case models.WokClean:
		if w.Temperature >= cfg.OverheatAt {
			setState(w, models.WokOverheating, now)
		}
	case models.WokOverheating:
		if w.Temperature < cfg.OverheatAt {
			setState(w, models.WokClean, now)
		} else if cooledLongEnough(w, now, cfg.OverheatCooldown) {
			setState(w, models.WokClean, now)
		}
	case models.WokWet:
		if !w.IsOn || w.Position != models.PositionAtBurner {
			break
		}
		if w.Temperature >= cfg.DryAt || heatedLongEnough(w, now, cfg.DryTime) {
			setState(w, models.WokClean, now)
		}
	}
	return false
}

func cooledLongEnough(w *models.Wok, now, d time.Duration) bool {
	return d > 0 && !w.IsOn && w.HeatOffSince != nil && now-*w.HeatOffSince >= d
}

func heatedLongEnough(w *models.Wok, now, d time.Duration) bool {
	return d > 0 && w.IsOn && w.HeatOnSince != nil && now-*w.HeatOnSince >= d
}
