package provider

import (
	"context"

	"github.com/looplab/fsm"
)

// State is the global lifecycle state of the provider.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateError         State = "error"
)

// States lists every state.
var States = []State{StateUninitialized, StateLoading, StateReady, StateError}

const (
	eventLoad   = "load"
	eventLoaded = "loaded"
	eventFail   = "fail"
)

func newLifecycle(onEnter func(State)) *fsm.FSM {
	return fsm.NewFSM(
		string(StateUninitialized),
		fsm.Events{
			{Name: eventLoad, Src: []string{string(StateUninitialized), string(StateReady), string(StateError)}, Dst: string(StateLoading)},
			{Name: eventLoaded, Src: []string{string(StateLoading)}, Dst: string(StateReady)},
			{Name: eventFail, Src: []string{string(StateLoading)}, Dst: string(StateError)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(State(e.Dst))
			},
		},
	)
}
