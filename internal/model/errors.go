package model

import "errors"

var (
	// ErrInvalidFactorSelection is returned when a categorical choice is not in its legal set.
	ErrInvalidFactorSelection = errors.New("invalid factor selection")

	// ErrNonPositiveDefinite is returned when the correlation matrix has no Cholesky factor.
	ErrNonPositiveDefinite = errors.New("correlation matrix is not positive definite")

	// ErrInvalidDimension is returned for non-positive day or path counts and misshapen matrices.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrInvalidParameter is returned for non-finite or out-of-range numeric parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)
