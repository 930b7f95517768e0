package scene

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakecoffman/rigid"
)

const (
	defaultTicks = 600
	// SettleSpeed is the linear plus angular speed under which a body counts as at rest.
	SettleSpeed = 1e-2
)

type Report struct {
	Scene     string        `json:"scene"`
	World     uuid.UUID     `json:"world"`
	Ticks     int           `json:"ticks"`
	Bodies    int           `json:"bodies"`
	Joints    int           `json:"joints"`
	MaxSpeed  float64       `json:"max_speed"`
	Settled   bool          `json:"settled"`
	Manifolds int           `json:"manifolds"`
	Contacts  int           `json:"contacts"`
	Skipped   int           `json:"skipped"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Run builds the scene and steps it ticks times at its fixed timestep. A non-positive ticks
// falls back to the scene's own tick count. Cancellation is checked between ticks.
func Run(ctx context.Context, s *Scene, ticks int, log *zap.Logger) (Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if ticks <= 0 {
		ticks = s.Ticks
	}
	if ticks <= 0 {
		ticks = defaultTicks
	}

	w, err := s.Build(rigid.WithLogger(log))
	if err != nil {
		return Report{}, err
	}
	log = log.With(zap.String("scene", s.Name), zap.Stringer("world", w.ID()))
	log.Info("scene loaded", zap.Int("bodies", w.BodyCount()), zap.Int("joints", w.JointCount()))

	start := time.Now()
	dt := w.Config().FixedDT
	skipped := 0
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		if err := w.Step(dt); err != nil {
			return Report{}, err
		}
		skipped += w.Stats().Skipped
	}

	report := Report{
		Scene:     s.Name,
		World:     w.ID(),
		Ticks:     ticks,
		Bodies:    w.BodyCount(),
		Joints:    w.JointCount(),
		MaxSpeed:  MaxSpeed(w),
		Manifolds: w.ManifoldCount(),
		Contacts:  w.Stats().Contacts,
		Skipped:   skipped,
		Elapsed:   time.Since(start),
	}
	report.Settled = report.MaxSpeed < SettleSpeed

	log.Info("run finished",
		zap.Int("ticks", report.Ticks),
		zap.Float64("max_speed", report.MaxSpeed),
		zap.Bool("settled", report.Settled),
		zap.Int("manifolds", report.Manifolds),
		zap.Int("contacts", report.Contacts),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// RunAll runs every scene in its own goroutine. Each world is still stepped by exactly one
// goroutine. The first error cancels the rest.
func RunAll(ctx context.Context, scenes []*Scene, ticks int, log *zap.Logger) ([]Report, error) {
	reports := make([]Report, len(scenes))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range scenes {
		i, s := i, s
		g.Go(func() error {
			report, err := Run(ctx, s, ticks, log)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// MaxSpeed is the largest |v| + |ω| over the dynamic bodies.
func MaxSpeed(w *rigid.World) float64 {
	var top float64
	for i := 0; i < w.BodyCount(); i++ {
		body := w.Body(i)
		if body.IsStatic() {
			continue
		}
		top = math.Max(top, body.Velocity().Length()+math.Abs(body.AngularVelocity()))
	}
	return top
}
