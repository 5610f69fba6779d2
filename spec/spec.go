// Package spec implements specifications of the actions and
// observations of environments
package spec

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	default:
		return "Reward"
	}
}

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Environment implements an environment specification, which tells
// the type, shape, and bounds of an action, observation, or reward in
// an environment
type Environment struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewEnvironment constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewEnvironment(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Environment {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Environment{shape, t, lowerBound, upperBound, cardinality}
}

// Uniform constructs a specification of dims values which all share
// the same bounds
func Uniform(dims int, t SpecType, min, max float64,
	cardinality Cardinality) Environment {
	lower := make([]float64, dims)
	upper := make([]float64, dims)
	for i := range lower {
		lower[i] = min
		upper[i] = max
	}

	return NewEnvironment(mat.NewVecDense(dims, nil), t,
		mat.NewVecDense(dims, lower), mat.NewVecDense(dims, upper), cardinality)
}

// Contains returns whether every element of v lies within the bounds
// of the specification
func (e Environment) Contains(v mat.Vector) bool {
	if v.Len() != e.Shape.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < e.LowerBound.AtVec(i) || v.AtVec(i) > e.UpperBound.AtVec(i) {
			return false
		}
	}
	return true
}
