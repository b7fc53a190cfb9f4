//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package deviceinfo

func osVersion() string {
	return ""
}
