//go:build !(linux || darwin || freebsd)

package utils

import "errors"

func DiskSpace(path string) (free, total uint64, err error) {
	return 0, 0, errors.New("disk space is not available on this platform")
}
