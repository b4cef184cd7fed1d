package svc

import "errors"

var ErrUnknownStorageDriver = errors.New("unknown storage driver")
