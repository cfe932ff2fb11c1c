package logicalplan

import (
	"fmt"

	"github.com/yachtsql/yachtsql/yerrors"
)

func arityError(name string, want, got int) error {
	return yerrors.Internal.New(fmt.Sprintf("%s expects %d children, got %d", name, want, got))
}

func remapFailed(index int) error {
	return yerrors.Internal.New(fmt.Sprintf("no remapping for column index %d", index))
}
