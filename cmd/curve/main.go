package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meenmo/curvelib/cmd/curve/internal/curvedef"
	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/ibor"
	"github.com/meenmo/curvelib/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var render func([]curvedef.Built) (any, error)
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "build":
		render = renderGrid
	case "reprice":
		render = renderResiduals
	case "cashflows":
		render = renderCashflows
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "TOML curve definition path (optional; if set, ignores stdin)")
	configPath := fs.String("config", "", "TOML solver config path (optional)")
	verbose := fs.Bool("v", false, "Log every curve point")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(strings.TrimSpace(*configPath))
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to load config: %v", err))
	}

	input, err := readInput(stdin, strings.TrimSpace(*inputPath))
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to read input: %v", err))
	}
	def, err := curvedef.Parse(bytes.NewReader(input))
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to parse definition: %v", err))
	}
	specs, err := def.Resolve()
	if err != nil {
		return writeError(stdout, err.Error())
	}

	built, err := curvedef.Build(context.Background(), specs, cfg, logger)
	if err != nil {
		return writeError(stdout, err.Error())
	}

	output, err := render(built)
	if err != nil {
		return writeError(stdout, err.Error())
	}
	outputBytes, _ := json.Marshal(output)
	fmt.Fprintln(stdout, string(outputBytes))
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: curve <command> [-input def.toml] [-config solver.toml] [-v]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Bootstrap the curves and print their grids")
	fmt.Fprintln(w, "  reprice    Print each calibration instrument's repricing residual")
	fmt.Fprintln(w, "  cashflows  Print the leg cashflows of each calibration swap")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reads the definition from stdin unless -input is given. Output is JSON.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

type errorOutput struct {
	Error string `json:"error"`
}

func writeError(stdout io.Writer, msg string) int {
	outputBytes, _ := json.Marshal(errorOutput{Error: msg})
	fmt.Fprintln(stdout, string(outputBytes))
	return 1
}

type gridPoint struct {
	T        float64  `json:"t"`
	DF       float64  `json:"df"`
	ZeroRate *float64 `json:"zero_rate,omitempty"`
}

type gridOutput struct {
	Name          string      `json:"name"`
	ValuationDate string      `json:"valuation_date"`
	Interp        string      `json:"interp"`
	Discount      string      `json:"discount,omitempty"`
	Points        []gridPoint `json:"points"`
}

func renderGrid(built []curvedef.Built) (any, error) {
	out := make([]gridOutput, 0, len(built))
	for _, b := range built {
		g := gridOutput{
			Name:          b.Spec.Name,
			ValuationDate: utils.FormatDate(b.Index.ValuationDate()),
			Interp:        b.Index.Interp().String(),
			Discount:      discountName(b.Spec),
		}
		dfs := b.Index.DFs()
		for i, t := range b.Index.Times() {
			p := gridPoint{T: t, DF: dfs[i]}
			if t > 0 {
				z := -math.Log(dfs[i]) / t
				p.ZeroRate = &z
			}
			g.Points = append(g.Points, p)
		}
		out = append(out, g)
	}
	return map[string]any{"curves": out}, nil
}

func discountName(s curvedef.Spec) string {
	switch {
	case s.Discount != "":
		return s.Discount
	case s.FlatDiscount != nil:
		return fmt.Sprintf("FLAT(%g)", *s.FlatDiscount)
	default:
		return ""
	}
}

type residualOutput struct {
	Kind      string  `json:"kind"`
	Start     string  `json:"start"`
	Maturity  string  `json:"maturity"`
	Residual  float64 `json:"residual"`
	Tolerance float64 `json:"tolerance"`
	Repriced  bool    `json:"repriced"`
}

type repriceOutput struct {
	Name           string           `json:"name"`
	MaxAbsResidual float64          `json:"max_abs_residual"`
	Residuals      []residualOutput `json:"residuals"`
}

func renderResiduals(built []curvedef.Built) (any, error) {
	out := make([]repriceOutput, 0, len(built))
	for _, b := range built {
		rs, err := b.Residuals()
		if err != nil {
			return nil, fmt.Errorf("curve %q: %w", b.Spec.Name, err)
		}
		r := repriceOutput{Name: b.Spec.Name, MaxAbsResidual: ibor.MaxAbsResidual(rs)}
		for _, res := range rs {
			r.Residuals = append(r.Residuals, residualOutput{
				Kind:      string(res.Kind),
				Start:     utils.FormatDate(res.Start),
				Maturity:  utils.FormatDate(res.Maturity),
				Residual:  res.Value,
				Tolerance: res.Tolerance,
				Repriced:  res.Repriced(),
			})
		}
		out = append(out, r)
	}
	return map[string]any{"curves": out}, nil
}

type cashflowRow struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Pay          string          `json:"pay"`
	AccrualDays  int             `json:"accrual_days"`
	YearFrac     float64         `json:"year_frac"`
	Rate         float64         `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	DF           float64         `json:"df"`
	PV           decimal.Decimal `json:"pv"`
	CumulativePV decimal.Decimal `json:"cumulative_pv"`
}

type swapCashflows struct {
	Maturity string          `json:"maturity"`
	ParRate  float64         `json:"par_rate"`
	PV01     float64         `json:"pv01"`
	NPV      decimal.Decimal `json:"npv"`
	Fixed    []cashflowRow   `json:"fixed"`
	Float    []cashflowRow   `json:"float"`
}

type cashflowOutput struct {
	Name  string          `json:"name"`
	Swaps []swapCashflows `json:"swaps"`
}

func renderCashflows(built []curvedef.Built) (any, error) {
	out := make([]cashflowOutput, 0, len(built))
	for _, b := range built {
		c := cashflowOutput{Name: b.Spec.Name, Swaps: []swapCashflows{}}
		valuation := b.Index.ValuationDate()
		for _, s := range b.Instruments().Swaps {
			fixed, err := s.FixedLeg().Cashflows(valuation, b.Discount)
			if err != nil {
				return nil, fmt.Errorf("curve %q: %w", b.Spec.Name, err)
			}
			float, err := s.FloatLeg().Cashflows(valuation, b.Discount, b.Index, nil)
			if err != nil {
				return nil, fmt.Errorf("curve %q: %w", b.Spec.Name, err)
			}
			par, err := s.ParRate(valuation, b.Discount, b.Index)
			if err != nil {
				return nil, fmt.Errorf("curve %q: %w", b.Spec.Name, err)
			}
			pv01, err := s.PV01(valuation, b.Discount)
			if err != nil {
				return nil, fmt.Errorf("curve %q: %w", b.Spec.Name, err)
			}
			c.Swaps = append(c.Swaps, swapCashflows{
				Maturity: utils.FormatDate(s.MaturityDate()),
				ParRate:  par,
				PV01:     pv01,
				NPV:      swap.SumPV(fixed).Add(swap.SumPV(float)),
				Fixed:    rows(fixed),
				Float:    rows(float),
			})
		}
		out = append(out, c)
	}
	return map[string]any{"curves": out}, nil
}

func rows(flows []swap.Cashflow) []cashflowRow {
	out := make([]cashflowRow, 0, len(flows))
	for _, f := range flows {
		out = append(out, cashflowRow{
			Start:        utils.FormatDate(f.StartDate),
			End:          utils.FormatDate(f.EndDate),
			Pay:          utils.FormatDate(f.PayDate),
			AccrualDays:  f.AccrualDays,
			YearFrac:     f.YearFrac,
			Rate:         f.Rate,
			Amount:       f.Amount,
			DF:           f.DF,
			PV:           f.PV,
			CumulativePV: f.CumulativePV,
		})
	}
	return out
}
