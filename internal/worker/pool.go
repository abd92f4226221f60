package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by SubmitJob when the job queue has no room.
	ErrQueueFull = errors.New("job queue full")
	// ErrDispatcherStopped is returned by SubmitJob after Stop.
	ErrDispatcherStopped = errors.New("dispatcher stopped")
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute() error // The method that performs the actual work
	ID() string     // A unique identifier for the job
}

// Worker is responsible for processing jobs.
// It runs in its own goroutine and receives jobs on a dedicated channel.
type Worker struct {
	ID         int
	WorkerPool chan chan Job // A pool of channels, used to register this worker's job channel
	JobChannel chan Job      // A channel specific to this worker, to receive jobs
	Quit       <-chan struct{}
	Wg         *sync.WaitGroup
	Logger     *logrus.Logger
}

// NewWorker creates a new Worker.
func NewWorker(id int, workerPool chan chan Job, quit <-chan struct{}, wg *sync.WaitGroup, logger *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Quit:       quit,
		Wg:         wg,
		Logger:     logger,
	}
}

// Start makes the Worker listen for jobs on its JobChannel.
func (w Worker) Start() {
	w.Wg.Add(1)
	go func() {
		defer w.Wg.Done()
		for {
			// Register the current worker's JobChannel to the worker pool.
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.Quit:
				return
			}

			select {
			case job := <-w.JobChannel:
				w.run(job)
			case <-w.Quit:
				w.Logger.WithField("worker", w.ID).Debug("Worker stopping")
				return
			}
		}
	}()
}

func (w Worker) run(job Job) {
	entry := w.Logger.WithFields(logrus.Fields{"worker": w.ID, "job_id": job.ID()})
	entry.Debug("Started job")
	if err := job.Execute(); err != nil {
		entry.WithError(err).Error("Job failed")
		return
	}
	entry.Debug("Finished job")
}

// Dispatcher manages a pool of workers and dispatches jobs to them.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job // A pool of worker job channels
	JobQueue   chan Job      // A buffered channel for incoming jobs
	Workers    []Worker
	Wg         sync.WaitGroup // To wait for all workers to finish

	logger   *logrus.Logger
	drain    chan struct{}
	quit     chan struct{}
	dispatch sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(maxWorkers int, jobQueueSize int, logger *logrus.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		logger:     logger,
		drain:      make(chan struct{}),
		quit:       make(chan struct{}),
	}
}

// Run starts the dispatcher and its workers.
func (d *Dispatcher) Run() {
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, d.quit, &d.Wg, d.logger)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}

	d.dispatch.Add(1)
	go d.loop()
	d.logger.WithField("workers", d.MaxWorkers).Info("Dispatcher is running")
}

// loop hands queued jobs to the next free worker, one at a time, so the
// queue bound also bounds the number of pending jobs. Once draining starts it
// empties the queue and returns.
func (d *Dispatcher) loop() {
	defer d.dispatch.Done()
	for {
		select {
		case job := <-d.JobQueue:
			if !d.handOff(job) {
				return
			}
		case <-d.drain:
			for {
				select {
				case job := <-d.JobQueue:
					if !d.handOff(job) {
						return
					}
				default:
					return
				}
			}
		case <-d.quit:
			return
		}
	}
}

// handOff blocks until a worker takes the job. It reports false when the
// dispatcher quits first.
func (d *Dispatcher) handOff(job Job) bool {
	select {
	case <-d.quit:
		d.logger.WithField("job_id", job.ID()).Warn("Dispatcher stopped before job could run")
		return false
	default:
	}

	select {
	case jobChannel := <-d.WorkerPool:
		select {
		case jobChannel <- job:
			return true
		case <-d.quit:
		}
	case <-d.quit:
	}
	d.logger.WithField("job_id", job.ID()).Warn("Dispatcher stopped before job could run")
	return false
}

// SubmitJob adds a job to the job queue without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.JobQueue <- job:
		d.logger.WithField("job_id", job.ID()).Debug("Job submitted to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains the queue and waits for every job to finish.
func (d *Dispatcher) Stop() {
	_ = d.Shutdown(context.Background())
}

// Shutdown rejects new jobs, hands every queued job to the workers and waits
// for them to finish. If ctx ends first, jobs still queued are discarded,
// running jobs are waited for, and ctx's error is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.drain)
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.dispatch.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
	}

	close(d.quit)
	d.dispatch.Wait()
	d.Wg.Wait()

	if pending := len(d.JobQueue); pending > 0 {
		d.logger.WithField("pending", pending).Warn("Dispatcher discarded queued jobs on shutdown")
	}
	d.logger.Info("Dispatcher shutdown complete")
	return err
}
