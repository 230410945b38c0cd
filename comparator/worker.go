package comparator

import (
	"image"
	"sync"
)

// windowJob asks a worker to score the window at position idx of the tiling.
type windowJob struct {
	idx    int
	bounds image.Rectangle
}

// worker receives window jobs, scores them and stores each result at its
// index, so the caller can reduce in tiling order once all workers exit.
func worker(wg *sync.WaitGroup, jobs <-chan windowJob, results []WindowScore, score func(image.Rectangle) WindowScore) {
	defer wg.Done()
	for job := range jobs {
		results[job.idx] = score(job.bounds)
	}
}
