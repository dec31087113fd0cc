package memory

import "errors"

var errSetFailed = errors.New("memory: injected set failure")
