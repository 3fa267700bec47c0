package planner

import "errors"

var ErrUnknownItem = errors.New("item not present in local aggregate")
