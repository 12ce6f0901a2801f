package curvedef

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/ibor"
)

// Calibrated is the calibration view shared by single and dual curves.
type Calibrated interface {
	Instruments() ibor.Instruments
	Residuals() ([]ibor.Residual, error)
}

// Built is a finished curve together with the curve its instruments were
// discounted on (the curve itself for a single curve).
type Built struct {
	Spec     Spec
	Index    *curve.Curve
	Discount curve.Discounter
	Calibrated
}

// Build bootstraps every spec. Curves are built in rounds: each round builds,
// concurrently, every curve whose discount curve is already finished.
func Build(ctx context.Context, specs []Spec, cfg config.Config, logger *slog.Logger) ([]Built, error) {
	index := make(map[string]int, len(specs))
	for i, s := range specs {
		index[s.Name] = i
	}

	out := make([]Built, len(specs))
	done := make([]bool, len(specs))
	for remaining := len(specs); remaining > 0; {
		var ready []int
		for i, s := range specs {
			if done[i] {
				continue
			}
			if s.Discount == "" || done[index[s.Discount]] {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			return nil, fmt.Errorf("Build: discount curves form a cycle")
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, i := range ready {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				var discount curve.Discounter
				if name := specs[i].Discount; name != "" {
					discount = out[index[name]].Index
				}
				b, err := buildOne(specs[i], discount, cfg, logger)
				if err != nil {
					return fmt.Errorf("Build: curve %q: %w", specs[i].Name, err)
				}
				out[i] = b
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, i := range ready {
			done[i] = true
		}
		remaining -= len(ready)
	}
	return out, nil
}

func buildOne(s Spec, discount curve.Discounter, cfg config.Config, logger *slog.Logger) (Built, error) {
	p := s.Params
	p.Config = &cfg
	p.Logger = logger.With(slog.String("curve", s.Name))

	if discount == nil && s.FlatDiscount != nil {
		discount = curve.NewFlat(p.ValuationDate, *s.FlatDiscount)
	}
	if discount == nil {
		c, err := ibor.BuildCurve(p)
		if err != nil {
			return Built{}, err
		}
		return Built{Spec: s, Index: c.Curve, Discount: c.Curve, Calibrated: c}, nil
	}
	c, err := ibor.BuildDualCurve(p, discount)
	if err != nil {
		return Built{}, err
	}
	return Built{Spec: s, Index: c.Curve, Discount: c.DiscountCurve(), Calibrated: c}, nil
}
