package resolver

import "errors"

// ErrNotResolvable is wrapped by every Resolve failure.
var ErrNotResolvable = errors.New("channel identifier not resolvable")
