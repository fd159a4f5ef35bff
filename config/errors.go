package config

import "errors"

var ErrValueIsRequired = errors.New("value is required")
