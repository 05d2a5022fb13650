// Package otp generates the numeric one-time codes shown at the gate.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	DefaultLength = 6
	MinLength     = 4
	MaxLength     = 9
)

// ErrInvalidLength is returned for code lengths outside MinLength..MaxLength.
var ErrInvalidLength = errors.New("otp: invalid code length")

// Generator produces fixed-width numeric codes. The first digit is never 0,
// so a code keeps its width even when the backend stores it as a number.
type Generator struct {
	length int
	random io.Reader
}

// Option customises a Generator.
type Option func(*Generator)

// WithRandom replaces the crypto/rand source. Tests use it for deterministic codes.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.random = r
	}
}

// NewGenerator returns a Generator for codes of the given length.
func NewGenerator(length int, opts ...Option) (*Generator, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidLength, length, MinLength, MaxLength)
	}

	g := &Generator{length: length, random: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Length reports the width of generated codes.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns a new code.
func (g *Generator) Generate() (string, error) {
	low := int64(1)
	for i := 1; i < g.length; i++ {
		low *= 10
	}

	n, err := rand.Int(g.random, big.NewInt(9*low))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	return strconv.FormatInt(low+n.Int64(), 10), nil
}
