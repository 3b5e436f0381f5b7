package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/tair/fabstock/internal/domain"
)

const (
	eventStart = "start"
	eventClose = "close"
)

// ticketLifecycle returns the forward-only ticket machine positioned at status.
func ticketLifecycle(status domain.TicketStatus) *fsm.FSM {
	return fsm.NewFSM(
		string(status),
		fsm.Events{
			{Name: eventStart, Src: []string{string(domain.TicketOpen)}, Dst: string(domain.TicketInProgress)},
			{Name: eventClose, Src: []string{string(domain.TicketInProgress)}, Dst: string(domain.TicketDone)},
		},
		fsm.Callbacks{},
	)
}

// transition runs event against status and returns the resulting status.
func transition(ctx context.Context, status domain.TicketStatus, event string) (domain.TicketStatus, error) {
	lc := ticketLifecycle(status)
	if err := lc.Event(ctx, event); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return status, fmt.Errorf("cannot %s a ticket that is %s: %w", event, status, domain.ErrInvalidTransition)
		}
		return status, err
	}
	return domain.TicketStatus(lc.Current()), nil
}
