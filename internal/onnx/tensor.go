package onnx

import (
	"fmt"
	"math"
)

type TensorDType string

const (
	DTypeFloat32 TensorDType = "float32"
	DTypeInt32   TensorDType = "int32"
	DTypeInt64   TensorDType = "int64"
)

// Element is the set of Go element types a Tensor can hold.
type Element interface {
	~float32 | ~int32 | ~int64
}

// Tensor is a dense, immutable host-side tensor.
type Tensor struct {
	dtype TensorDType
	shape []int64
	data  any
}

func NewTensor[T Element](data []T, shape []int64) (*Tensor, error) {
	if err := validateShapeAgainstData(shape, len(data)); err != nil {
		return nil, err
	}

	t := &Tensor{shape: append([]int64(nil), shape...)}

	var zero T
	switch any(zero).(type) {
	case float32:
		t.dtype = DTypeFloat32
		t.data = convert[T, float32](data)
	case int32:
		t.dtype = DTypeInt32
		t.data = convert[T, int32](data)
	case int64:
		t.dtype = DTypeInt64
		t.data = convert[T, int64](data)
	default:
		return nil, fmt.Errorf("unsupported tensor data type %T", zero)
	}

	return t, nil
}

func convert[T Element, U float32 | int32 | int64](data []T) []U {
	out := make([]U, len(data))
	for i, v := range data {
		out[i] = U(v)
	}

	return out
}

func (t *Tensor) DType() TensorDType {
	return t.dtype
}

func (t *Tensor) Shape() []int64 {
	return append([]int64(nil), t.shape...)
}

// Data returns a copy of the backing slice.
func (t *Tensor) Data() any {
	switch v := t.data.(type) {
	case []float32:
		return append([]float32(nil), v...)
	case []int32:
		return append([]int32(nil), v...)
	case []int64:
		return append([]int64(nil), v...)
	default:
		return nil
	}
}

func ExtractFloat32(t *Tensor) ([]float32, error) {
	return extract[float32](t, DTypeFloat32)
}

func ExtractInt32(t *Tensor) ([]int32, error) {
	return extract[int32](t, DTypeInt32)
}

func ExtractInt64(t *Tensor) ([]int64, error) {
	return extract[int64](t, DTypeInt64)
}

func extract[T float32 | int32 | int64](t *Tensor, want TensorDType) ([]T, error) {
	if t == nil {
		return nil, fmt.Errorf("expected %s tensor, got nil", want)
	}
	if t.dtype != want {
		return nil, fmt.Errorf("expected %s tensor, got %s", want, t.dtype)
	}

	data, ok := t.data.([]T)
	if !ok {
		return nil, fmt.Errorf("%s tensor has unexpected backing type %T", want, t.data)
	}

	return append([]T(nil), data...), nil
}

func validateShapeAgainstData(shape []int64, dataLen int) error {
	count, err := elementCount(shape)
	if err != nil {
		return err
	}
	if count != dataLen {
		return fmt.Errorf("shape %v expects %d elements, got %d", shape, count, dataLen)
	}
	return nil
}

func elementCount(shape []int64) (int, error) {
	if len(shape) == 0 {
		return 1, nil
	}
	count := int64(1)
	for i, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("shape[%d]=%d is negative", i, dim)
		}
		if dim == 0 {
			return 0, nil
		}
		if count > math.MaxInt64/dim {
			return 0, fmt.Errorf("shape %v overflows element count", shape)
		}
		count *= dim
	}
	if count > int64(math.MaxInt) {
		return 0, fmt.Errorf("shape %v exceeds platform int capacity", shape)
	}
	return int(count), nil
}
