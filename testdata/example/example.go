// Package example demonstrates Google-style docstrings on a small API.
//
// The package contains a greeter type and a couple of free functions with
// documented arguments, return values and raised errors.
package example

import "fmt"

// Greeter builds greeting strings for a configured audience.
//
// Attributes:
//     Greeting (string): Template used for every produced greeting.
//     Loud (bool): Whether greetings are upper-cased.
type Greeter struct {
	Greeting string
	Loud     bool
}

// NewGreeter returns a Greeter using the given template.
//
// Args:
//     greeting (string): Template containing exactly one %s verb which
//         receives the name being greeted.
//
// Returns:
//     *Greeter: A ready-to-use greeter.
func NewGreeter(greeting string) *Greeter {
	return &Greeter{Greeting: greeting}
}

// Greet produces a greeting for name.
//
// Args:
//     name (string): Who to greet. Must not be empty.
//
// Returns:
//     string: The formatted greeting.
func (g *Greeter) Greet(name string) string {
	return fmt.Sprintf(g.Greeting, name)
}

// Add returns the sum of a and b.
//
// Args:
//     a (int): First operand.
//     b (int): Second operand.
//
// Returns:
//     int: The sum.
func Add(a, b int) int {
	return a + b
}

// hidden is not exported and stays out of the docs unless private symbols
// are requested.
func hidden() {}
