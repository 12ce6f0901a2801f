package swap

import (
	"errors"
	"reflect"
	"time"

	"github.com/meenmo/curvelib/swap/curve"
)

// ErrNilCurve is returned when a required curve argument is nil.
var ErrNilCurve = curve.ErrNilCurve

// Kind tags a calibration instrument.
type Kind string

const (
	KindDeposit Kind = "DEPOSIT"
	KindFRA     Kind = "FRA"
	KindSwap    Kind = "SWAP"
)

// Instrument is a market-quoted contract a curve can be calibrated to.
//
// Value returns the signed present value at valueDate. Cashflows are
// discounted on discount; index supplies forward rates and defaults to
// discount when nil.
type Instrument interface {
	Kind() Kind
	StartDate() time.Time
	MaturityDate() time.Time
	Notional() float64
	Value(valueDate time.Time, discount, index curve.Discounter) (float64, error)
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func curves(discount, index curve.Discounter) (curve.Discounter, curve.Discounter, error) {
	if isNilInterface(discount) {
		return nil, nil, ErrNilCurve
	}
	if isNilInterface(index) {
		index = discount
	}
	return discount, index, nil
}

var (
	errNonPositiveNotional = errors.New("notional must be positive")
	errUnknownDayCount     = errors.New("unknown day count")
)
