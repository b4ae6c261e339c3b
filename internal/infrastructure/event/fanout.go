package event

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
)

// FanoutPublisher hands every batch to each publisher in turn.
// All publishers are tried; their errors are joined.
type FanoutPublisher struct {
	publishers []shared.EventPublisher
}

// NewFanoutPublisher creates a FanoutPublisher
func NewFanoutPublisher(publishers ...shared.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{publishers: publishers}
}

// Publish implements shared.EventPublisher
func (f *FanoutPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ shared.EventPublisher = (*FanoutPublisher)(nil)
