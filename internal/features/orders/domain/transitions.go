package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a requested manual transition is
// forbidden by the order's current state or capability flags.
var ErrInvalidTransition = errors.New("invalid status transition")

// DefaultAdvanceInterval is the elapsed time between automatic status
// steps when no interval is configured.
const DefaultAdvanceInterval = 30 * time.Second

// forwardFlow is the automatic delivery progression, in order.
var forwardFlow = []OrderStatus{StatusPlaced, StatusShipped, StatusInTransit, StatusDelivered}

// returnFlow is the automatic return progression, in order. Its clock
// origin is the most recent return_requested tracking entry rather than
// the order date.
var returnFlow = []OrderStatus{StatusReturnRequested, StatusReturnPickupScheduled, StatusReturnPicked, StatusReturnInTransit, StatusReturned}

// ActiveStatuses returns every status subject to automatic time-based
// progression. Delivered is excluded: it only leaves by an explicit
// return request.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPlaced, StatusShipped, StatusInTransit,
		StatusReturnRequested, StatusReturnPickupScheduled,
		StatusReturnPicked, StatusReturnInTransit,
	}
}

// Resolver decides the next status of an order given the caller's request,
// the current persisted state and the wall clock. It performs no I/O so the
// transition policy can be tested in isolation from persistence.
//
// Automatic progression advances at most one step per call; an external
// poller drives repeated calls, which keeps the side-effect count per
// invocation predictable.
type Resolver struct {
	// AdvanceInterval is the elapsed time required per automatic step.
	AdvanceInterval time.Duration
}

// NewResolver creates a Resolver; a non-positive interval falls back to
// DefaultAdvanceInterval.
func NewResolver(advanceInterval time.Duration) Resolver {
	if advanceInterval <= 0 {
		advanceInterval = DefaultAdvanceInterval
	}
	return Resolver{AdvanceInterval: advanceInterval}
}

// Resolve returns the status the order should hold at time now. Returning
// the current status means no transition is due (the update is a no-op).
//
// Precedence:
//  1. cancellation requests, validated against CanCancel
//  2. return requests, validated against CanReturn
//  3. time-based forward progression for placed/shipped/in_transit, which
//     ignores the requested status
//  4. time-based return sub-flow progression, which also ignores the
//     requested status
//  5. return initiation from the delivered rest state
//  6. terminal states absorb any remaining request as a no-op
//  7. any other requested status is applied as-is
func (r Resolver) Resolve(o *Order, requested OrderStatus, now time.Time) (OrderStatus, error) {
	if !requested.Known() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requested)
	}

	if requested == StatusCancelled {
		if !o.CanCancel {
			return "", fmt.Errorf("%w: order in status %s cannot be cancelled", ErrInvalidTransition, o.Status)
		}
		return StatusCancelled, nil
	}

	if requested == StatusReturnRequested && !o.CanReturn {
		return "", fmt.Errorf("%w: order in status %s cannot request a return", ErrInvalidTransition, o.Status)
	}

	if o.Status == StatusPlaced || o.Status == StatusShipped || o.Status == StatusInTransit {
		return r.advance(forwardFlow, o.Status, now.Sub(o.OrderDate)), nil
	}

	if o.Status.InReturnFlow() && o.Status != StatusReturned {
		origin, ok := o.returnRequestedAt()
		if !ok {
			// A return-flow status without a return_requested entry should
			// not exist; hold position rather than guess an origin.
			return o.Status, nil
		}
		return r.advance(returnFlow, o.Status, now.Sub(origin)), nil
	}

	if requested == StatusReturnRequested {
		// CanReturn held and the order is neither mid-flow nor terminal,
		// so this is the delivered rest state starting a return.
		return StatusReturnRequested, nil
	}

	if o.Status.Terminal() {
		return o.Status, nil
	}

	return requested, nil
}

// advance moves the status one step along flow when elapsed time has
// crossed the threshold for the next step. Thresholds are multiples of the
// advance interval counted from the flow's clock origin, so intermediate
// states are never skipped even if several thresholds have passed.
func (r Resolver) advance(flow []OrderStatus, current OrderStatus, elapsed time.Duration) OrderStatus {
	idx := -1
	for i, s := range flow {
		if s == current {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(flow)-1 {
		return current
	}
	if elapsed >= time.Duration(idx+1)*r.AdvanceInterval {
		return flow[idx+1]
	}
	return current
}
