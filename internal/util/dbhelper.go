package util

import (
	"errors"
	"time"
)

var (
	ErrorNotFound        = errors.New("resource not found")
	ErrorDuplicateEmail  = errors.New("a seller with that email already exists")
	QueryTimeoutDuration = time.Second * 5
)
