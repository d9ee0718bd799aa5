package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float tensor with values drawn from N(0, 1) using the
// Box-Muller transform. math/rand is intentional: weight init wants
// reproducibility via rand.Seed, not cryptographic strength.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		dst := any(data).([]float32)
		for i := 0; i < len(dst); i += 2 {
			u1 := rand.Float64() //nolint:gosec
			u2 := rand.Float64() //nolint:gosec
			r := math.Sqrt(-2.0 * math.Log(u1))
			dst[i] = float32(r * math.Cos(2.0*math.Pi*u2))
			if i+1 < len(dst) {
				dst[i+1] = float32(r * math.Sin(2.0*math.Pi*u2))
			}
		}
	case float64:
		dst := any(data).([]float64)
		for i := 0; i < len(dst); i += 2 {
			u1 := rand.Float64() //nolint:gosec
			u2 := rand.Float64() //nolint:gosec
			r := math.Sqrt(-2.0 * math.Log(u1))
			dst[i] = r * math.Cos(2.0*math.Pi*u2)
			if i+1 < len(dst) {
				dst[i+1] = r * math.Sin(2.0*math.Pi*u2)
			}
		}
	default:
		panic("Randn only supports float32 and float64")
	}
	return t
}

// Rand creates a float tensor with values uniform in [0, 1).
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		dst := any(data).([]float32)
		for i := range dst {
			dst[i] = rand.Float32() //nolint:gosec
		}
	case float64:
		dst := any(data).([]float64)
		for i := range dst {
			dst[i] = rand.Float64() //nolint:gosec
		}
	default:
		panic("Rand only supports float32 and float64")
	}
	return t
}
