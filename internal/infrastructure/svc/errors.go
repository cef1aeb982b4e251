package svc

import "errors"

// ErrStorageInitFailed wraps any failure while opening the position store.
var ErrStorageInitFailed = errors.New("storage initialization failed")
