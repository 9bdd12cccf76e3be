// Package scheduler ejecuta los jobs periódicos de la API con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// PendingCounter fuente del número de usuarios pendientes (ApprovalUseCase).
type PendingCounter interface {
	CountPending(ctx context.Context) (int, error)
}

// PendingGauge destino del conteo (metrics.Metrics).
type PendingGauge interface {
	SetPendingApprovals(n int)
}

const jobTimeout = 30 * time.Second

// Scheduler envuelve un cron.Cron con los jobs registrados.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea el scheduler. Las expresiones aceptan 5 campos y descriptores (@every 5m, @hourly).
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.Named("scheduler"),
	}
}

// AddPendingApprovalsJob refresca el gauge de pendientes con la expresión cron dada.
func (s *Scheduler) AddPendingApprovalsJob(expr string, counter PendingCounter, gauge PendingGauge) error {
	job := PendingApprovalsJob(counter, gauge, s.log)
	if _, err := s.cron.AddFunc(expr, job); err != nil {
		return fmt.Errorf("scheduler: expresión %q inválida: %w", expr, err)
	}
	s.log.Info().Str("job", "pending_approvals").Str("expr", expr).Msg("job registrado")
	return nil
}

// Start arranca el cron en su propia goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop detiene el cron y espera a los jobs en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("jobs en curso sin terminar al apagar")
	}
}

// PendingApprovalsJob devuelve la función del job; se ejecuta también una vez al arrancar.
func PendingApprovalsJob(counter PendingCounter, gauge PendingGauge, log *logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		n, err := counter.CountPending(ctx)
		if err != nil {
			log.Error().Err(err).Msg("no se pudo contar usuarios pendientes")
			return
		}
		gauge.SetPendingApprovals(n)
		log.Debug().Int("pending", n).Msg("pendientes actualizados")
	}
}
