package algorithm

import (
	"github.com/pkg/errors"
)

// ErrInvalidConfig is the inner error of every rejection of a training configuration, so that
// errors.Is can identify rejections regardless of the message wrapped around them. A rejection
// means the configuration conflicts with what the algorithm declares; it is distinct from a
// malformed specification, which check.Validate reports at parse time.
var ErrInvalidConfig = errors.New("invalid training configuration")

// AsInvalidConfig returns an error wrapping ErrInvalidConfig with the given message.
func AsInvalidConfig(msg string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, msg, args...)
}
