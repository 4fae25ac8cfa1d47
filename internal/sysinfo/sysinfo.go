// Package sysinfo describes the host the app is running on.
package sysinfo

import (
	"os"
	"runtime"
)

// Info is the system information shown on the about page.
type Info struct {
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	RuntimeVersion  string `json:"runtime_version"`
	Machine         string `json:"machine"`
	Processor       string `json:"processor"`
	Hostname        string `json:"hostname"`
	AppDataDir      string `json:"app_data_dir"`
}

// Collect gathers host details. Fields the OS won't report are left empty.
func Collect(appDataDir string) Info {
	hostname, _ := os.Hostname()
	version, machine := kernelInfo()
	if machine == "" {
		machine = runtime.GOARCH
	}
	return Info{
		Platform:        PlatformName(runtime.GOOS),
		PlatformVersion: version,
		RuntimeVersion:  runtime.Version(),
		Machine:         machine,
		Processor:       runtime.GOARCH,
		Hostname:        hostname,
		AppDataDir:      appDataDir,
	}
}

// PlatformName maps a GOOS value to the conventional OS name.
func PlatformName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	default:
		return goos
	}
}
