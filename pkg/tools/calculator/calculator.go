// Package calculator implements the arithmetic tool: two operands and an
// operation in, a human-readable equation out.
package calculator

import "fmt"

// Operation is one of the four supported arithmetic operations.
type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
)

const (
	// ErrDivisionByZero is returned as the result of dividing by zero.
	ErrDivisionByZero = "Error: Division by zero"
	// ErrInvalidOperation is returned for any operation outside the supported set.
	ErrInvalidOperation = "Error: Invalid operation"
)

// Operations lists the supported operations in declaration order.
var Operations = []Operation{Add, Subtract, Multiply, Divide}

// Symbol returns the infix symbol for op, or "" when op is unknown.
func (op Operation) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return ""
}

// Calculate applies op to a and b and returns "{a} {sym} {b} = {result}".
// Failures are reported in the returned string, never as a panic.
func Calculate(a, b Number, op Operation) string {
	var result Number

	switch op {
	case Add:
		result = apply(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
	case Subtract:
		result = apply(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
	case Multiply:
		result = apply(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
	case Divide:
		if b.IsZero() {
			return ErrDivisionByZero
		}
		result = Float(a.Float64() / b.Float64())
	default:
		return ErrInvalidOperation
	}

	return fmt.Sprintf("%s %s %s = %s", a, op.Symbol(), b, result)
}

// apply uses integer arithmetic when both operands are integers.
func apply(a, b Number, ints func(x, y int64) int64, reals func(x, y float64) float64) Number {
	if a.IsInt() && b.IsInt() {
		return Int(ints(a.i, b.i))
	}
	return Float(reals(a.Float64(), b.Float64()))
}
