package physicalplan

import (
	"fmt"

	"github.com/yachtsql/yachtsql/yerrors"
)

func arityError(name string, want, got int) error {
	return yerrors.Internal.New(fmt.Sprintf("%s expects %d children, got %d", name, want, got))
}
