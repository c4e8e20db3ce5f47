package scheduler

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TickFunc runs one cycle of a loop.
type TickFunc func(ctx context.Context) error

// Loop is one periodic task. It fires once immediately and then every Interval.
type Loop struct {
	Name     string
	Interval time.Duration
	Tick     TickFunc
	// Halt reports whether a tick error must stop this loop for good. Nil never halts.
	Halt func(err error) bool
	// OnHalt is called once when the loop stops because of Halt.
	OnHalt func(err error)
}

// Scheduler drives independent loops. A failing or panicking tick is logged and
// never affects the other loops.
type Scheduler struct {
	loops  []Loop
	logger *logger.Logger
}

// New creates a scheduler for loops.
func New(log *logger.Logger, loops ...Loop) *Scheduler {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Scheduler{
		loops:  loops,
		logger: log.Named("scheduler"),
	}
}

// Run blocks until ctx is cancelled and every loop has finished its current tick.
// Cancellation is observed between ticks only.
func (s *Scheduler) Run(ctx context.Context) error {
	g := new(errgroup.Group)

	for _, loop := range s.loops {
		if loop.Interval <= 0 || loop.Tick == nil {
			return errors.Newf(errors.ErrCodeInvalidParameter, "loop %q needs a positive interval and a tick function", loop.Name)
		}
	}

	for _, loop := range s.loops {
		g.Go(func() error {
			s.run(ctx, loop)

			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) run(ctx context.Context, loop Loop) {
	log := s.logger.With(zap.String("loop", loop.Name))
	log.Info("Loop started", zap.Duration("interval", loop.Interval))

	ticker := time.NewTicker(loop.Interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			log.Info("Loop stopped")

			return
		}

		if err := s.tick(ctx, loop); err != nil {
			if loop.Halt != nil && loop.Halt(err) {
				log.Error("Loop halted", zap.Error(err))

				if loop.OnHalt != nil {
					loop.OnHalt(err)
				}

				return
			}

			log.Warn("Tick failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("Loop stopped")

			return
		case <-ticker.C:
		}
	}
}

// tick runs one cycle and turns a panic into an error.
func (s *Scheduler) tick(ctx context.Context, loop Loop) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeUnknown, "tick panicked: %v", r)

			s.logger.Error("Recovered from panic",
				zap.String("loop", loop.Name),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()

	start := time.Now()
	err = loop.Tick(ctx)

	s.logger.Debug("Tick finished",
		zap.String("loop", loop.Name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)

	return err
}
