package cpu

import (
	"fmt"
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

// CrossEntropy computes the mean softmax cross-entropy over a batch.
//
//	logits:  [batch, classes] float32
//	targets: [batch] int32 class indices
//
// Returns a single-element tensor: mean over the batch of
// -log_softmax(logits)[target], computed with the log-sum-exp trick.
func (cpu *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("crossentropy: logits must be 2D [batch, classes], got %v", shape))
	}
	if len(targets.Shape()) != 1 || targets.Shape()[0] != shape[0] {
		panic(fmt.Sprintf("crossentropy: targets shape %v does not match batch %d", targets.Shape(), shape[0]))
	}

	batch, classes := shape[0], shape[1]
	logitsData := logits.AsFloat32()
	targetsData := targets.AsInt32()

	var total float64
	for b := 0; b < batch; b++ {
		row := logitsData[b*classes : (b+1)*classes]

		maxVal := row[0]
		for k := 1; k < classes; k++ {
			if row[k] > maxVal {
				maxVal = row[k]
			}
		}

		var sumExp float64
		for k := 0; k < classes; k++ {
			sumExp += math.Exp(float64(row[k] - maxVal))
		}
		logSumExp := float64(maxVal) + math.Log(sumExp)

		target := int(targetsData[b])
		if target < 0 || target >= classes {
			panic(fmt.Sprintf("crossentropy: target %d out of range [0, %d)", target, classes))
		}
		total += logSumExp - float64(row[target])
	}

	result := newRawOrPanic("crossentropy", tensor.Shape{1}, cpu.device)
	result.AsFloat32()[0] = float32(total / float64(batch))
	return result
}
