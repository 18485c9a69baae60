package forest

import (
	"strconv"
	"time"

	"forest-rails/internal/core"
)

// Parameters reports the active board and timing settings grouped for the HUD
// and the console.
func (w *World) Parameters() core.ParameterSnapshot {
	t := w.cfg.Timing
	groups := []core.ParameterGroup{
		{
			Name: "Board",
			Params: []core.Parameter{
				intParam("rows", "Rows", w.cfg.Rows),
				intParam("cols", "Columns", w.cfg.Cols),
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("variants", "Forest variants", w.cfg.Variants),
			},
		},
		{
			Name: "Rules",
			Params: []core.Parameter{
				intParam("trains_to_win", "Trains to win", w.cfg.TrainsToWin),
			},
		},
		{
			Name: "Timing",
			Params: []core.Parameter{
				durationParam("growth_interval", "Growth interval", t.GrowthInterval),
				durationParam("pulse_interval", "Pulse interval", t.PulseInterval),
				durationParam("build_delay", "Fence build delay", t.BuildDelay),
				durationParam("fence_lifespan", "Fence lifespan", t.FenceLifespan),
				durationParam("transit_time", "Train transit time", t.TransitTime),
				durationParam("retry_interval", "Blocked train retry", t.RetryInterval),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func durationParam(key, label string, value time.Duration) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeDuration,
		Value: value.String(),
	}
}
