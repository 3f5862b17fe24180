// Package netutil provides the one piece of low-level socket control
// the discovery protocol needs: address+port reuse on the UDP listener,
// so two peers (or two instances in a test harness) on the same host
// can bind the well-known discovery port concurrently.
package netutil

import (
	"context"
	"net"
	"syscall"
)

// ListenUDPReusable binds a UDP socket on address with SO_REUSEADDR (and
// SO_REUSEPORT where available) set before bind, via the raw-conn
// Control hook — net.ListenUDP alone has no reuse-port knob.
func ListenUDPReusable(address string) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			return setReuse(network, address, c)
		},
	}
	pc, err := lc.ListenPacket(context.Background(), "udp4", address)
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
