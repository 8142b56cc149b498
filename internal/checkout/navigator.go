package checkout

import (
	"context"

	"github.com/Alturino/florist/internal/common/constants"
)

const TargetCatalogHome = constants.HomePath

// Navigator moves the customer to another page: the catalog home or a
// payment provider.
type Navigator interface {
	Navigate(c context.Context, target string) error
}

type NavigatorFunc func(c context.Context, target string) error

func (f NavigatorFunc) Navigate(c context.Context, target string) error {
	return f(c, target)
}
