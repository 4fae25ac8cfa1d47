//go:build !(linux || darwin || freebsd || openbsd || netbsd || windows)

package sysinfo

func kernelInfo() (version, machine string) {
	return "", ""
}
