package main

import (
	"strconv"
	"strings"
)

// Number is a data stack value: an integer when it came from an exact integer
// literal (or integer-only arithmetic), a float otherwise.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// Int returns an integer Number.
func Int(i int64) Number { return Number{i: i} }

// Float returns a floating-point Number.
func Float(f float64) Number { return Number{f: f, isFloat: true} }

// IsFloat returns true if n is a floating-point value.
func (n Number) IsFloat() bool { return n.isFloat }

// Float64 returns n as a float64, converting integers.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n Number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	s := strconv.FormatFloat(n.f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// parseNumber tries an integer parse, then a floating-point one.
func parseNumber(token string) (Number, bool) {
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return Int(i), true
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return Float(f), true
	}
	return Number{}, false
}

// Binary operations take the second-from-top value as a, and the top as b.
// Two integers stay integral; anything else is done in floating point.

func (a Number) add(b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() + b.Float64()), nil
	}
	return Int(a.i + b.i), nil
}

func (a Number) sub(b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() - b.Float64()), nil
	}
	return Int(a.i - b.i), nil
}

func (a Number) mul(b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() * b.Float64()), nil
	}
	return Int(a.i * b.i), nil
}

func (a Number) div(b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() / b.Float64()), nil
	}
	if b.i == 0 {
		return Number{}, errDivideByZero
	}
	return Int(a.i / b.i), nil
}
