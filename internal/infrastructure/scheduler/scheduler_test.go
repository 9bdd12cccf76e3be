package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magizh-industries/magizh-api/pkg/logger"
)

type stubCounter struct {
	n   int
	err error
}

func (s stubCounter) CountPending(context.Context) (int, error) { return s.n, s.err }

type stubGauge struct {
	set   bool
	value int
}

func (g *stubGauge) SetPendingApprovals(n int) { g.set, g.value = true, n }

func TestPendingApprovalsJob(t *testing.T) {
	g := &stubGauge{}
	PendingApprovalsJob(stubCounter{n: 3}, g, logger.Nop())()
	assert.True(t, g.set)
	assert.Equal(t, 3, g.value)
}

func TestPendingApprovalsJob_ErrorNoActualiza(t *testing.T) {
	g := &stubGauge{}
	PendingApprovalsJob(stubCounter{err: errors.New("firestore caído")}, g, logger.Nop())()
	assert.False(t, g.set)
}

func TestScheduler_ExpresionInvalida(t *testing.T) {
	s := New(nil)
	err := s.AddPendingApprovalsJob("cada cinco minutos", stubCounter{}, &stubGauge{})
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddPendingApprovalsJob("@every 1h", stubCounter{n: 1}, &stubGauge{}))
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
