package ibor

import (
	"log/slog"

	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/solver"
	"github.com/meenmo/curvelib/utils"
)

// bootstrap appends one grid point per instrument of used. discount is nil
// for a single curve.
func bootstrap(b *builder, used Instruments, discount curve.Discounter, cfg config.Config, logger *slog.Logger) error {
	for _, d := range used.Deposits {
		df := d.MaturityDF() * b.DF(d.StartDate())
		t := b.time(d.MaturityDate())
		if err := b.push(d, t, df); err != nil {
			return err
		}
		logPoint(logger, d, t, df, 0)
	}

	prevT := b.lastTime()
	for _, f := range used.FRAs {
		tset := b.time(f.StartDate())
		tmat := b.time(f.MaturityDate())

		if tset < prevT && tmat > prevT {
			df, err := f.MaturityDF(b)
			if err != nil {
				return fail(ErrNotConverged, f, "%v", err)
			}
			if err := b.push(f, tmat, df); err != nil {
				return err
			}
			logPoint(logger, f, tmat, df, 0)
		} else {
			iters, err := solveTrailing(b, f, tmat, discount, cfg)
			if err != nil {
				return err
			}
			logPoint(logger, f, tmat, b.lastDF(), iters)
		}
		prevT = tmat
	}

	for _, s := range used.Swaps {
		// the last payment date rather than maturity, in case it rolled over a holiday
		tmat := b.time(s.LastPaymentDate())
		iters, err := solveTrailing(b, s, tmat, discount, cfg)
		if err != nil {
			return err
		}
		logPoint(logger, s, tmat, b.lastDF(), iters)
	}
	return nil
}

// solveTrailing appends a point at t seeded with the previous discount factor
// and solves for the discount factor that reprices inst.
func solveTrailing(b *builder, inst swap.Instrument, t float64, discount curve.Discounter, cfg config.Config) (int, error) {
	guess := b.lastDF()
	if err := b.push(inst, t, guess); err != nil {
		return 0, err
	}
	res, err := solver.Newton(objective(b, inst, b.valuation, discount), guess, cfg)
	if err != nil {
		return 0, &ConstructionError{Rule: ErrNotConverged, Instrument: inst, Residual: res.Residual, Detail: err.Error()}
	}
	if err := b.setLast(res.Root); err != nil {
		return 0, fail(ErrNotConverged, inst, "%v", err)
	}
	return res.Iterations, nil
}

func logPoint(logger *slog.Logger, inst swap.Instrument, t, df float64, iters int) {
	logger.Debug("curve point",
		slog.String("kind", string(inst.Kind())),
		slog.String("maturity", utils.FormatDate(inst.MaturityDate())),
		slog.Float64("t", t),
		slog.Float64("df", df),
		slog.Int("iterations", iters),
	)
}
