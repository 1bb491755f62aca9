package app

import (
	"log/slog"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// journal writes loop events to the store. A nil store turns every call
// into a no-op. Write failures are logged, never fatal.
type journal struct {
	store     *store.Store
	sessionID string
	logger    *slog.Logger
}

func newJournal(s *store.Store, logger *slog.Logger) *journal {
	return &journal{store: s, logger: logger}
}

func (j *journal) start() {
	if j.store == nil {
		return
	}
	sess, err := j.store.Sessions().Start()
	if err != nil {
		j.logger.Error("journal: start session", "error", err)
		return
	}
	j.sessionID = sess.ID
	j.logger.Info("journal session started", "session", sess.ID)
}

func (j *journal) finish(frames int64) {
	if j.store == nil || j.sessionID == "" {
		return
	}
	if err := j.store.Sessions().Finish(j.sessionID, frames); err != nil {
		j.logger.Error("journal: finish session", "error", err)
	}
}

func (j *journal) command(cmd gesture.Command, cmdErr error) {
	e := &store.Event{Kind: cmd.String()}
	if cmdErr != nil {
		e.Error = cmdErr.Error()
	}
	j.record(e)
}

func (j *journal) actuatorError(op string, kind actuator.Kind, err error) {
	j.record(&store.Event{
		Kind:   store.EventActuatorError,
		Detail: op + ": " + kind.String(),
		Error:  err.Error(),
	})
}

func (j *journal) record(e *store.Event) {
	if j.store == nil || j.sessionID == "" {
		return
	}
	e.SessionID = j.sessionID
	if err := j.store.Events().Record(e); err != nil {
		j.logger.Error("journal: record event", "kind", e.Kind, "error", err)
	}
}
