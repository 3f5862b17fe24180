//go:build linux

package netutil

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setReuse sets SO_REUSEADDR (so two test peers on the same host can
// bind the discovery port at once) and SO_REUSEPORT where the kernel
// supports it, matching the source implementation's best-effort
// getattr/setsockopt pattern.
func setReuse(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); sockErr != nil {
			return
		}
		// SO_REUSEPORT failures are non-fatal: older kernels and some
		// sandboxes reject it even though REUSEADDR alone is enough
		// for our purposes (binding the same port from two processes
		// on one host during local testing).
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
