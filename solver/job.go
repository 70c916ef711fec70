package solver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/pointmorph/morph"
)

// Job is one background solve over a fixed (source, target, settings)
// triple: one worker goroutine, one cancel token, one progress channel.
// Owners hold at most one live job; starting a replacement cancels the old
// job and drops its channel, so a superseded terminal message is never
// applied.
type Job struct {
	Settings Settings
	Started  time.Time

	cancel *CancelToken
	ch     *Channel
}

// StartJob validates inputs synchronously, then launches the solve on its
// own goroutine. Input errors are returned here and never travel over the
// progress channel.
func StartJob(source, target *morph.ParticleGrid, settings Settings) (*Job, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	want := settings.Sidelen * settings.Sidelen
	if source.Len() != want {
		return nil, fmt.Errorf("source grid holds %d particles, settings expect %d", source.Len(), want)
	}
	if target.Len() != want {
		return nil, fmt.Errorf("target grid holds %d particles, settings expect %d", target.Len(), want)
	}

	j := &Job{
		Settings: settings,
		Started:  time.Now(),
		cancel:   NewCancelToken(),
		ch:       NewChannel(),
	}

	go j.run(source, target)
	return j, nil
}

// run executes the solve and emits exactly one terminal message.
func (j *Job) run(source, target *morph.ParticleGrid) {
	result, err := Solve(source, target, j.Settings, j.cancel, j.ch)
	switch {
	case err == ErrCancelled:
		slog.Info("solve cancelled",
			"algorithm", j.Settings.Algorithm.String(),
			"elapsed", time.Since(j.Started))
		j.ch.SendCancelled()
	case err != nil:
		slog.Error("solve failed",
			"algorithm", j.Settings.Algorithm.String(),
			"error", err)
		j.ch.SendFailed(err.Error())
	default:
		slog.Info("solve complete",
			"algorithm", j.Settings.Algorithm.String(),
			"particles", len(result.Assignment),
			"total_cost", result.TotalCost,
			"identity_cost", result.IdentityCost,
			"iterations", result.Iterations,
			"elapsed", result.Elapsed)
		j.ch.SendProgress(1.0)
		j.ch.SendDone(result)
	}
}

// Cancel requests cooperative termination. The worker stops within a
// bounded number of work units and emits Cancelled, never Done.
func (j *Job) Cancel() {
	j.cancel.Cancel()
}

// Messages returns the job's progress channel for polling.
func (j *Job) Messages() *Channel {
	return j.ch
}
