//go:build !unix

package host

import (
	"errors"
)

func fileOwner(string) (uid, gid int, err error) {
	return 0, 0, errors.New("file ownership is not supported on this platform")
}
