package hiring

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID         = errors.New("hiring: invalid id")
	ErrInvalidName       = errors.New("hiring: name not allowed")
	ErrDuplicateID       = errors.New("hiring: id already exists")
	ErrReferenceNotFound = errors.New("hiring: referenced department or job does not exist")

	// ErrNotFound は種別を問わない未検出エラーです。各種別の未検出エラーはこれを包みます。
	ErrNotFound           = errors.New("hiring: not found")
	ErrDepartmentNotFound = fmt.Errorf("%w: department", ErrNotFound)
	ErrJobNotFound        = fmt.Errorf("%w: job", ErrNotFound)
	ErrEmployeeNotFound   = fmt.Errorf("%w: employee", ErrNotFound)
)
