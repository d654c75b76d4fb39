//go:build linux || darwin || freebsd

package utils

import "golang.org/x/sys/unix"

// DiskSpace returns the free (available to us) and total bytes of the volume holding path
func DiskSpace(path string) (free, total uint64, err error) {
	var st unix.Statfs_t
	if err = unix.Statfs(path, &st); err != nil {
		return 0, 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), uint64(st.Blocks) * uint64(st.Bsize), nil
}
