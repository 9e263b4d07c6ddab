package generator

import (
	"context"

	"github.com/Klingon-tech/hdgen/internal/wallet"
)

// progressBuffer bounds the number of undelivered progress updates.
const progressBuffer = 64

// Job is a batch running on its own goroutine.
type Job struct {
	progress chan Progress
	done     chan struct{}
	records  []wallet.Record
	err      error
}

// Start runs Generate in the background. The caller must drain Progress
// or cancel ctx; a full progress buffer pauses the batch.
func (g *Generator) Start(ctx context.Context, req Request) *Job {
	j := &Job{
		progress: make(chan Progress, progressBuffer),
		done:     make(chan struct{}),
	}
	go func() {
		defer close(j.done)
		defer close(j.progress)
		j.records, j.err = g.Generate(ctx, req, func(p Progress) {
			select {
			case j.progress <- p:
			case <-ctx.Done():
			}
		})
	}()
	return j
}

// Progress returns the update stream. It is closed when the batch ends.
func (j *Job) Progress() <-chan Progress {
	return j.progress
}

// Done is closed once the result is available.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result blocks until the batch ends and returns its outcome.
func (j *Job) Result() ([]wallet.Record, error) {
	<-j.done
	return j.records, j.err
}
