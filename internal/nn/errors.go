package nn

import "errors"

// Sentinel errors returned by the parameter registry. Callers match
// them with errors.Is.
var (
	// ErrNotFound reports a parameter path or layer slot that does not
	// resolve to anything.
	ErrNotFound = errors.New("parameter not found")

	// ErrShapeMismatch reports incompatible shapes, either between tied
	// layer declarations or between a declaration and the input that
	// materializes it.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrAlreadyMaterialized reports a tying request against a layer
	// whose parameters already exist. Storage cannot be merged after
	// creation without invalidating tensors already handed out.
	ErrAlreadyMaterialized = errors.New("parameters already materialized")
)
