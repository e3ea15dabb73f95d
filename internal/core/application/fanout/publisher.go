package fanout

import (
	"context"

	"orderreview/internal/core/application/effects"
)

// Dispatcher starts a batch without waiting for it. effects.Runner implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, batch effects.Batch)
}

// Publisher plans an event and hands the batch to the dispatcher.
type Publisher struct {
	planner    *Planner
	dispatcher Dispatcher
}

func NewPublisher(planner *Planner, dispatcher Dispatcher) *Publisher {
	return &Publisher{planner: planner, dispatcher: dispatcher}
}

func (p *Publisher) Publish(ctx context.Context, event Event) {
	p.dispatcher.Dispatch(ctx, p.planner.Plan(event))
}
