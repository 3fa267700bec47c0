package onboarding

import "errors"

var ErrIncomplete = errors.New("wizard state incomplete")
