package autodiff

import (
	"github.com/weft-ml/weft/internal/autodiff/ops"
	"github.com/weft-ml/weft/internal/tensor"
)

// GradientTape records operations during the forward pass and replays
// them in reverse to compute gradients.
//
// Gradients are accumulated per RawTensor pointer. A tensor that feeds
// several operations, including a parameter shared between layers,
// receives the sum of every contribution that reaches it.
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a new, non-recording tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{operations: make([]ops.Operation, 0, 64)}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() { t.recording = true }

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() { t.recording = false }

// IsRecording reports whether the tape currently records operations.
func (t *GradientTape) IsRecording() bool { return t.recording }

// Record appends an operation if the tape is recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear removes all recorded operations. The recording flag is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward walks the tape in reverse from the final recorded operation,
// seeding its output with outputGrad, and returns the accumulated
// gradient for every tensor the gradient reached.
//
// Recording is suspended for the duration so the gradient math itself
// is not taped.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		opOutputGrad, ok := grads[op.Output()]
		if !ok {
			// No gradient flows through this operation.
			continue
		}
		t.accumulate(op.Inputs(), op.Backward(opOutputGrad, backend), grads, backend)
	}

	return grads
}

func (t *GradientTape) accumulate(
	inputs []*tensor.RawTensor,
	inputGrads []*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) {
	for j, input := range inputs {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrads[j])
		} else {
			grads[input] = inputGrads[j]
		}
	}
}
