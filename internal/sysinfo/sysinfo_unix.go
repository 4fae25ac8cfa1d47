//go:build linux || darwin || freebsd || openbsd || netbsd

package sysinfo

import "golang.org/x/sys/unix"

// kernelInfo returns the kernel version and machine hardware name from uname(2).
func kernelInfo() (version, machine string) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", ""
	}
	return unix.ByteSliceToString(uts.Version[:]), unix.ByteSliceToString(uts.Machine[:])
}
