package provider

import (
	"context"
	"sync"
)

// Step is one scripted answer of a Mock.
type Step struct {
	Out string
	Err error
}

// Mock for testing. Calls consume Steps in order; after that Dict is
// consulted, then Fn. With none of them matching the input is echoed back,
// which callers see as a failed translation.
type Mock struct {
	Steps []Step
	Dict  map[string]string
	Fn    func(text string) (string, error)

	mu     sync.Mutex
	inputs []string
}

func (m *Mock) Translate(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	n := len(m.inputs)
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()

	if n < len(m.Steps) {
		s := m.Steps[n]
		return s.Out, s.Err
	}
	if out, ok := m.Dict[text]; ok {
		return out, nil
	}
	if m.Fn != nil {
		return m.Fn(text)
	}
	return text, nil
}

// Calls returns how many times Translate ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// Inputs returns a copy of every text received, in call order.
func (m *Mock) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}
