package expr

import (
	"fmt"

	"github.com/yachtsql/yachtsql/yerrors"
)

func errArity(name string, want, got int) error {
	return yerrors.Internal.New(fmt.Sprintf("%s expects %d children, got %d", name, want, got))
}

func colNotFound(name string) error {
	return yerrors.ColumnNotFound.New(name)
}

func unsupported(what string) error {
	return yerrors.Unsupported.New(what)
}

func typeMismatch(expected, found string) error {
	return yerrors.NewTypeMismatch(expected, found)
}

func yerrorsOutOfBounds(index, length int) error {
	return yerrors.OutOfBounds(index, length)
}

func yerrorsDateTimeError(where, msg string) error {
	return yerrors.DateTimeError.New(where, msg)
}

func yerrorsInvalidQuery(msg string) error {
	return yerrors.InvalidQuery.New(msg)
}
