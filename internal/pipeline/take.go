// Package pipeline composes pure text transformations.
//
// Channel renderers are long chains of small normalization steps. Take gives
// those chains a readable left-to-right shape:
//
//	out := pipeline.Take(content).
//		Then(pipeline.NormaliseNewlines).
//		Then(pipeline.AddPrefix("NHS")).
//		String()
//
// Stages are plain func(string) string values. Parameterized stages
// (AddPrefix, ...) bind their arguments at composition time and return a
// Stage, so a chain never carries state besides the current text.
package pipeline

// Stage transforms text. Stages must be pure: same input, same output,
// no side effects.
type Stage func(string) string

// Chain holds the intermediate text of a Take sequence.
type Chain struct {
	s string
}

// Take starts a chain with the given text.
func Take(s string) Chain {
	return Chain{s: s}
}

// Then applies the stage and returns the advanced chain.
// A nil stage is a no-op.
func (c Chain) Then(stage Stage) Chain {
	if stage == nil {
		return c
	}
	return Chain{s: stage(c.s)}
}

// String returns the accumulated text.
func (c Chain) String() string {
	return c.s
}
