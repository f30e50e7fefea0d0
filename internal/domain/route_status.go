package domain

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Lifecycle states of a persisted route.
type RouteStatus string

const (
	RouteDraft     RouteStatus = "draft"
	RouteActive    RouteStatus = "active"
	RouteCompleted RouteStatus = "completed"
	RouteSaved     RouteStatus = "saved"
)

// Lifecycle events accepted by TransitionRouteStatus.
const (
	RouteEventActivate = "activate"
	RouteEventComplete = "complete"
	RouteEventSave     = "save"
)

func newRouteStatusFSM(current RouteStatus) *fsm.FSM {
	return fsm.NewFSM(
		string(current),
		fsm.Events{
			{Name: RouteEventActivate, Src: []string{string(RouteDraft), string(RouteSaved)}, Dst: string(RouteActive)},
			{Name: RouteEventComplete, Src: []string{string(RouteActive)}, Dst: string(RouteCompleted)},
			{Name: RouteEventSave, Src: []string{string(RouteDraft), string(RouteActive), string(RouteCompleted)}, Dst: string(RouteSaved)},
		},
		fsm.Callbacks{},
	)
}

// TransitionRouteStatus applies a lifecycle event to the current status and
// returns the resulting status. Invalid transitions are rejected.
func TransitionRouteStatus(current RouteStatus, event string) (RouteStatus, error) {
	m := newRouteStatusFSM(current)
	if err := m.Event(context.Background(), event); err != nil {
		return current, fmt.Errorf("route status %q event %q: %w", current, event, err)
	}
	return RouteStatus(m.Current()), nil
}
