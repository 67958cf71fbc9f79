package calculator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_IntegerOperations(t *testing.T) {
	assert.Equal(t, "2 + 3 = 5", Calculate(Int(2), Int(3), Add))
	assert.Equal(t, "1000 - 50 = 950", Calculate(Int(1000), Int(50), Subtract))
	assert.Equal(t, "125 * 8 = 1000", Calculate(Int(125), Int(8), Multiply))
	assert.Equal(t, "-4 - 6 = -10", Calculate(Int(-4), Int(6), Subtract))
}

func TestCalculate_RealOperations(t *testing.T) {
	assert.Equal(t, "1.5 + 2 = 3.5", Calculate(Float(1.5), Int(2), Add))
	assert.Equal(t, "2.5 * 4 = 10.0", Calculate(Float(2.5), Int(4), Multiply))
	assert.Equal(t, "1.5 + 0.5 = 2.0", Calculate(Float(1.5), Float(0.5), Add))
	assert.Equal(t, "2.0 + 3 = 5.0", Calculate(Float(2), Int(3), Add))
}

func TestCalculate_Divide(t *testing.T) {
	assert.Equal(t, "10 / 4 = 2.5", Calculate(Int(10), Int(4), Divide))
	assert.Equal(t, "1000 / 8 = 125.0", Calculate(Int(1000), Int(8), Divide))
}

func TestCalculate_DivisionByZero(t *testing.T) {
	assert.Equal(t, "Error: Division by zero", Calculate(Int(5), Int(0), Divide))
	assert.Equal(t, "Error: Division by zero", Calculate(Int(5), Float(0), Divide))
}

func TestCalculate_InvalidOperation(t *testing.T) {
	assert.Equal(t, "Error: Invalid operation", Calculate(Int(1), Int(2), Operation("modulo")))
	assert.Equal(t, "Error: Invalid operation", Calculate(Int(1), Int(2), ""))
}

func TestOperation_Symbol(t *testing.T) {
	assert.Equal(t, "+", Add.Symbol())
	assert.Equal(t, "-", Subtract.Symbol())
	assert.Equal(t, "*", Multiply.Symbol())
	assert.Equal(t, "/", Divide.Symbol())
	assert.Empty(t, Operation("modulo").Symbol())
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var args struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":125,"b":2.5,"c":"8"}`), &args))

	assert.True(t, args.A.IsInt())
	assert.Equal(t, "125", args.A.String())
	assert.False(t, args.B.IsInt())
	assert.Equal(t, "2.5", args.B.String())
	assert.True(t, args.C.IsInt())
	assert.Equal(t, "8", args.C.String())
}

func TestNumber_StringKeepsRealMarker(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`2.0`), &n))

	assert.False(t, n.IsInt())
	assert.Equal(t, "2.0", n.String())
	assert.Equal(t, "-3.0", Float(-3).String())
	assert.Equal(t, "0.25", Float(0.25).String())
}

func TestNumber_UnmarshalJSON_Invalid(t *testing.T) {
	var n Number
	assert.Error(t, json.Unmarshal([]byte(`"eight"`), &n))
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}

func TestNumber_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Number{"a": Int(3), "b": Float(0.25)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":0.25}`, string(data))
}
