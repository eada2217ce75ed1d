// File: fspoll/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fspoll

import "errors"

// ErrInvalidArgument is returned by GetPath on a handle that is not active.
var ErrInvalidArgument = errors.New("fspoll: invalid argument")

// ErrNoBuffer is returned by GetPath when the destination buffer is too
// small to hold the path and its NUL terminator.
var ErrNoBuffer = errors.New("fspoll: buffer too small")
