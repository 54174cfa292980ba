//go:build unix

package host

import (
	"golang.org/x/sys/unix"
)

// fileOwner returns the uid and gid owning a path, following symlinks.
func fileOwner(path string) (uid, gid int, err error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, 0, err
	}
	return int(st.Uid), int(st.Gid), nil
}
