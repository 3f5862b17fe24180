//go:build !linux

package netutil

import "syscall"

// setReuse is a no-op outside Linux: SO_REUSEPORT has no portable
// equivalent and plain SO_REUSEADDR (which Go's net package already
// requests implicitly on most platforms for UDP) is close enough for
// local development and CI on non-Linux hosts.
func setReuse(network, address string, c syscall.RawConn) error {
	return nil
}
