package result

import (
	"time"

	"github.com/planweave/planweave/pkg/engine"
)

// BatchView is the combined view of a multi-call batch. Per-call attribution
// is preserved; Status surfaces the worst outcome across the set so callers
// that only check one flag see failures.
type BatchView struct {
	Status   engine.Status   `json:"status"`
	Results  []engine.Result `json:"results"`
	Success  int             `json:"success"`
	Failed   int             `json:"failed"`
	TimedOut int             `json:"timed_out"`

	// Elapsed is the longest per-call duration. Calls run concurrently, so
	// this bounds the batch's wall-clock time; it is not a sum.
	Elapsed time.Duration `json:"elapsed"`
}

// Aggregate combines a batch of results. Status severity: failure > timeout
// > success.
func (n *Normalizer) Aggregate(results []engine.Result) BatchView {
	view := BatchView{
		Status:  engine.StatusSuccess,
		Results: results,
	}

	for _, r := range results {
		if r.Elapsed > view.Elapsed {
			view.Elapsed = r.Elapsed
		}
		switch r.Status {
		case engine.StatusSuccess:
			view.Success++
		case engine.StatusTimeout:
			view.TimedOut++
			if view.Status != engine.StatusFailure {
				view.Status = engine.StatusTimeout
			}
		default:
			view.Failed++
			view.Status = engine.StatusFailure
		}
	}
	return view
}
