package financing

import "math"

// Result is a derived loan quote. Values are unrounded; round only for display.
type Result struct {
	LoanAmount     float64
	MonthlyPayment float64
	TotalInterest  float64
}

const (
	// MaxRatePercent is the highest APR the calculator offers.
	MaxRatePercent = 15.0
	// RateStepPercent is the APR slider granularity.
	RateStepPercent = 0.25
)

// Terms lists the loan lengths offered, in months.
var Terms = []int{36, 48, 60, 72, 84}

// ValidTerm reports whether months is one of Terms.
func ValidTerm(months int) bool {
	for _, t := range Terms {
		if t == months {
			return true
		}
	}
	return false
}

// ValidRate reports whether rate lies on the 0–15% slider in quarter-point steps.
func ValidRate(rate float64) bool {
	if math.IsNaN(rate) || rate < 0 || rate > MaxRatePercent {
		return false
	}
	steps := rate / RateStepPercent
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// ClampDownPayment keeps a down payment within [0, price], as the slider does.
func ClampDownPayment(price, downPayment float64) float64 {
	return math.Min(math.Max(downPayment, 0), math.Max(price, 0))
}

// Estimate computes a fixed monthly installment by standard amortization. A zero rate
// is straight-line; a non-positive loan amount or term yields a zero payment.
func Estimate(price, downPayment, annualRatePercent float64, termMonths int) Result {
	loan := math.Max(price-downPayment, 0)
	res := Result{LoanAmount: loan}
	if loan <= 0 || termMonths <= 0 {
		return res
	}

	n := float64(termMonths)
	if annualRatePercent == 0 {
		res.MonthlyPayment = loan / n
	} else {
		r := annualRatePercent / 100 / 12
		growth := math.Pow(1+r, n)
		res.MonthlyPayment = loan * (r * growth) / (growth - 1)
	}
	res.TotalInterest = res.MonthlyPayment*n - loan
	return res
}
