package workflow

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("not allowed")
	ErrOutOfStock       = errors.New("asset is out of stock")
	ErrSeatLimitReached = errors.New("member limit reached")
	ErrNotPending       = errors.New("request is not pending")
	ErrInvalidStatus    = errors.New("invalid status")
)
