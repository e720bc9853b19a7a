// Package storage provides key/value backends for persisted carts.
package storage

import "errors"

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage key not found")
