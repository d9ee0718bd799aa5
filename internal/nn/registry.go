package nn

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/weft-ml/weft/internal/tensor"
)

// NamedParameters returns a lazy, restartable iterator over the
// module's parameters in depth-first declaration order. Names are
// fully qualified dotted paths ("0.weight", "1.0.bias").
//
// Each underlying storage is yielded exactly once: when layers are
// tied, the parameter appears under the first path that reaches it and
// later aliases are skipped.
//
//	for name, p := range nn.NamedParameters(model) {
//	    fmt.Println(name, p.Tensor().Shape())
//	}
func NamedParameters[B tensor.Backend](m Module[B]) iter.Seq2[string, *Parameter[B]] {
	return func(yield func(string, *Parameter[B]) bool) {
		seen := make(map[*tensor.RawTensor]struct{})
		walkParameters(m, "", seen, yield)
	}
}

func walkParameters[B tensor.Backend](
	m Module[B],
	prefix string,
	seen map[*tensor.RawTensor]struct{},
	yield func(string, *Parameter[B]) bool,
) bool {
	if c, ok := m.(container[B]); ok {
		for i, child := range c.Children() {
			if !walkParameters(child, prefix+strconv.Itoa(i)+".", seen, yield) {
				return false
			}
		}
		return true
	}

	for _, p := range m.Parameters() {
		raw := p.Tensor().Raw()
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		if !yield(prefix+p.Name(), p) {
			return false
		}
	}
	return true
}

// ParameterByPath resolves a dotted path like "2.weight" against the
// module tree and returns the parameter it names. Every alias path of
// a tied parameter resolves, not just the one NamedParameters yields.
//
// A path whose slot index, intermediate module, or final name does not
// resolve fails with ErrNotFound.
func ParameterByPath[B tensor.Backend](m Module[B], path string) (*Parameter[B], error) {
	segments := strings.Split(path, ".")

	current := m
	for _, seg := range segments[:len(segments)-1] {
		c, ok := current.(container[B])
		if !ok {
			return nil, fmt.Errorf("path %q: %T has no children: %w", path, current, ErrNotFound)
		}
		index, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("path %q: segment %q is not a slot index: %w", path, seg, ErrNotFound)
		}
		children := c.Children()
		if index < 0 || index >= len(children) {
			return nil, fmt.Errorf("path %q: slot %d out of range: %w", path, index, ErrNotFound)
		}
		current = children[index]
	}

	name := segments[len(segments)-1]
	for _, p := range current.Parameters() {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("path %q: %w", path, ErrNotFound)
}
