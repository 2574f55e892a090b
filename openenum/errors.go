package openenum

import "github.com/pkg/errors"

var (
	// ErrUnrecognized is returned when the number of the UNRECOGNIZED
	// sentinel is requested. The sentinel stands for any undeclared number,
	// so there is no single number to return.
	ErrUnrecognized = errors.New("enum value is unrecognized and has no number")

	// ErrInvalidOrdinal is returned for ordinals outside of the variant list.
	ErrInvalidOrdinal = errors.New("invalid enum ordinal")

	// ErrUnknownNumber is returned when a closed enum decodes a number that
	// was not declared.
	ErrUnknownNumber = errors.New("number is not declared by closed enum")
)
