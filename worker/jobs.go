package worker

import (
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer submits side-effect jobs to the job queue. Reactors depend on
// this interface so tests can capture submissions.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) error
}

// AsynqEnqueuer implements Enqueuer on an asynq client.
type AsynqEnqueuer struct {
	Client *asynq.Client
}

func (e *AsynqEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) error {
	if _, err := e.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}
