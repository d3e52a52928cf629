package mockdevice

import "context"

// Queue runs every launch synchronously in-process; there is no real
// asynchrony to wait on, so Synchronize and event Wait are both no-ops.
type Queue struct{}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Synchronize(context.Context) error { return nil }

type completedEvent struct{}

func (completedEvent) Wait(context.Context) error { return nil }
