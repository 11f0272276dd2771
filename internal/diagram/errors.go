package diagram

import "errors"

var (
	ErrSelfLoop           = errors.New("connection must join two different cards")
	ErrMissingEndpoint    = errors.New("connection endpoint missing")
	ErrInvalidKind        = errors.New("unknown connection kind")
	ErrCardNotFound       = errors.New("card not found")
	ErrConnectionNotFound = errors.New("connection not found")
)
