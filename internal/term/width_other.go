//go:build plan9 || appengine
// +build plan9 appengine

package term

func width(fd uintptr) (int, bool) {
	return 0, false
}
