// Package libframe runs per-frame work on a single goroutine.
package libframe

// Status is what a task asks of the scheduler after running.
type Status int

const (
	// Continue runs the task again next frame.
	Continue Status = iota
	// Done drops the task.
	Done
	// Exit stops the loop after the current frame.
	Exit
)

// TaskFunc receives the frame time in seconds.
type TaskFunc func(dt float32) Status

type task struct {
	name string
	fn   TaskFunc
}

// Scheduler runs a fixed list of tasks in the order they were added.
type Scheduler struct {
	tasks   []task
	exiting bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add appends a task to the end of the frame.
func (scheduler *Scheduler) Add(name string, fn TaskFunc) {
	scheduler.tasks = append(scheduler.tasks, task{name: name, fn: fn})
}

// Tasks returns the names of the remaining tasks, in run order.
func (scheduler *Scheduler) Tasks() []string {
	names := make([]string, len(scheduler.tasks))

	for i, t := range scheduler.tasks {
		names[i] = t.name
	}

	return names
}

// Step runs one frame. It returns false once a task has asked to exit or no tasks remain.
func (scheduler *Scheduler) Step(dt float32) bool {
	if scheduler.exiting {
		return false
	}

	remaining := scheduler.tasks[:0]

	for _, t := range scheduler.tasks {
		switch t.fn(dt) {
		case Done:
			logger.Debugf("Task %q finished", t.name)
		case Exit:
			logger.Debugf("Task %q requested exit", t.name)
			scheduler.exiting = true
			remaining = append(remaining, t)
		default:
			remaining = append(remaining, t)
		}
	}

	scheduler.tasks = remaining

	return !scheduler.exiting && len(scheduler.tasks) > 0
}
