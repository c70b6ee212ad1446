package strategy

import "errors"

// ErrStrategyNotFound is returned by Registry.Get for an unregistered id.
var ErrStrategyNotFound = errors.New("reasoning strategy not found")
