package battle

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

const (
	eventCommit    = "commit"
	eventResolve   = "resolve"
	eventNextRound = "next_round"
	eventWin       = "win"
	eventLose      = "lose"
	eventRestart   = "restart"
)

func newPhaseMachine(onEnter func(from, to Phase)) *fsm.FSM {
	all := []string{
		string(PhaseDecision), string(PhaseCommit), string(PhaseResolution),
		string(PhaseVictory), string(PhaseDefeat),
	}
	return fsm.NewFSM(
		string(PhaseDecision),
		fsm.Events{
			{Name: eventCommit, Src: []string{string(PhaseDecision)}, Dst: string(PhaseCommit)},
			{Name: eventResolve, Src: []string{string(PhaseCommit)}, Dst: string(PhaseResolution)},
			{Name: eventNextRound, Src: []string{string(PhaseResolution)}, Dst: string(PhaseDecision)},
			{Name: eventWin, Src: []string{string(PhaseResolution)}, Dst: string(PhaseVictory)},
			{Name: eventLose, Src: []string{string(PhaseResolution)}, Dst: string(PhaseDefeat)},
			{Name: eventRestart, Src: all, Dst: string(PhaseDecision)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if onEnter != nil {
					onEnter(Phase(e.Src), Phase(e.Dst))
				}
			},
		},
	)
}

// fire triggers event. Staying in the same phase is not an error.
func fire(m *fsm.FSM, event string) error {
	err := m.Event(context.Background(), event)
	var same fsm.NoTransitionError
	if errors.As(err, &same) {
		return nil
	}
	return err
}
