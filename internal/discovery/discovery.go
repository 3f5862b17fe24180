// Package discovery implements the blind, symmetric matchmaking
// protocol: two peers starting with nothing but a shared UDP broadcast
// address and port converge on exactly one TCP stream, with one side
// accepting (P1, Black) and the other connecting (P2, White).
package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/ehrlich-b/reversi/internal/logger"
	"github.com/ehrlich-b/reversi/internal/netutil"
	"github.com/ehrlich-b/reversi/internal/protocol"
	"github.com/ehrlich-b/reversi/internal/rerr"
)

// DefaultWindow is the default per-round deadline.
const DefaultWindow = 5 * time.Second

// Role identifies which side of the pair a peer ended up on.
type Role int

const (
	// P1 accepted the incoming TCP connection and plays Black.
	P1 Role = iota
	// P2 initiated the TCP connection and plays White.
	P2
)

func (r Role) String() string {
	if r == P1 {
		return "P1"
	}
	return "P2"
}

// Colour mirrors the role->colour derivation from the session driver's
// point of view, kept here so callers don't have to import board just
// to log a role.
func (r Role) Colour() string {
	if r == P1 {
		return "black"
	}
	return "white"
}

// Config parameterizes one matchmaking attempt.
type Config struct {
	BroadcastAddr string
	BroadcastPort int
	Window        time.Duration
}

func (c Config) window() time.Duration {
	if c.Window <= 0 {
		return DefaultWindow
	}
	return c.Window
}

// Result is what a successful DiscoverAndConnect call hands to the
// session driver. Ownership of Conn transfers to the caller.
type Result struct {
	Role         Role
	Conn         net.Conn
	PeerAddr     *net.TCPAddr
	GameplayPort int
}

// tieBreakerKey is the (timestamp, ip, port) triple compared
// lexicographically; smaller wins.
type tieBreakerKey struct {
	ts   float64
	ip   string
	port int
}

func (k tieBreakerKey) less(other tieBreakerKey) bool {
	if k.ts != other.ts {
		return k.ts < other.ts
	}
	if k.ip != other.ip {
		return k.ip < other.ip
	}
	return k.port < other.port
}

// DiscoverAndConnect runs rounds of passive-then-active discovery until
// it produces a connected pair or ctx is cancelled. Socket-level errors
// within a round are absorbed (logged at debug, retried). The only
// errors returned are ctx cancellation and a DiscoveryError when the
// UDP listener or broadcaster cannot be opened before the first round.
func DiscoverAndConnect(ctx context.Context, cfg Config) (Result, error) {
	window := cfg.window()

	udpListener, err := netutil.ListenUDPReusable(fmt.Sprintf(":%d", cfg.BroadcastPort))
	if err != nil {
		return Result{}, &rerr.DiscoveryError{Op: "bind udp listener", Err: err}
	}
	defer udpListener.Close()

	broadcaster, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return Result{}, &rerr.DiscoveryError{Op: "open udp broadcaster", Err: err}
	}
	defer broadcaster.Close()

	// Paces retries when a round fails to make progress (e.g. no TCP
	// port in range binds), so a busy peer doesn't hammer the network
	// with advert floods.
	retryLimiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)

	attempt := 0
	for {
		attempt++
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		if res, ok, err := passiveRound(ctx, udpListener, window); err != nil {
			logger.Debug("discovery passive round failed", "attempt", attempt, "err", err)
		} else if ok {
			return res, nil
		}

		res, err := activeRound(ctx, udpListener, broadcaster, cfg.BroadcastAddr, cfg.BroadcastPort, window)
		if err != nil {
			logger.Debug("discovery active round failed", "attempt", attempt, "err", err)
			if werr := retryLimiter.Wait(ctx); werr != nil {
				return Result{}, werr
			}
			continue
		}
		return res, nil
	}
}

// passiveRound listens for up to window for a well-formed advert and
// attempts to connect back. ok is false (with a nil error) on a clean
// timeout; err is set only for genuine socket trouble.
func passiveRound(ctx context.Context, udpListener *net.UDPConn, window time.Duration) (Result, bool, error) {
	deadline := time.Now().Add(window)
	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return Result{}, false, ctx.Err()
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Result{}, false, nil
		}
		if err := udpListener.SetReadDeadline(time.Now().Add(remaining)); err != nil {
			return Result{}, false, &rerr.DiscoveryError{Op: "set udp read deadline", Err: err}
		}

		n, addr, err := udpListener.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return Result{}, false, nil
			}
			return Result{}, false, &rerr.DiscoveryError{Op: "recv advert", Err: err}
		}

		gameplayPort, perr := protocol.DecodeNewGame(string(buf[:n]))
		if perr != nil {
			continue // not a well-formed advert; ignore and keep listening
		}

		conn, derr := net.DialTimeout("tcp4", fmt.Sprintf("%s:%d", addr.IP.String(), gameplayPort), window)
		if derr != nil {
			continue // stale advert: sender's listener is already gone
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.SetDeadline(time.Now().Add(window))
		}
		return Result{
			Role:         P2,
			Conn:         conn,
			PeerAddr:     &net.TCPAddr{IP: addr.IP, Port: gameplayPort},
			GameplayPort: gameplayPort,
		}, true, nil
	}
}

// activeRound picks a gameplay port, listens on it, broadcasts an
// advert, and waits on both the listener and the UDP socket at once.
func activeRound(ctx context.Context, udpListener *net.UDPConn, broadcaster *net.UDPConn, broadcastAddr string, broadcastPort int, window time.Duration) (Result, error) {
	gameplayPort, tcpListener, err := bindGameplayListener(window)
	if err != nil {
		return Result{}, &rerr.DiscoveryError{Op: "bind gameplay listener", Err: err}
	}
	defer tcpListener.Close()

	myAdvertTS := nowSeconds()
	myIP := bestEffortLocalIP(broadcastAddr)
	myKey := tieBreakerKey{ts: myAdvertTS, ip: myIP, port: gameplayPort}

	payload, err := protocol.EncodeNewGame(gameplayPort)
	if err != nil {
		return Result{}, &rerr.DiscoveryError{Op: "encode advert", Err: err}
	}
	dst := &net.UDPAddr{IP: net.ParseIP(broadcastAddr), Port: broadcastPort}
	if _, err := broadcaster.WriteToUDP([]byte(payload+"\n"), dst); err != nil {
		return Result{}, &rerr.DiscoveryError{Op: "broadcast advert", Err: err}
	}

	type acceptResult struct {
		conn net.Conn
		addr net.Addr
		err  error
	}
	type advertResult struct {
		peerIP   string
		peerPort int
		err      error
	}
	acceptCh := make(chan acceptResult, 1)
	advertCh := make(chan advertResult, 1)
	deadlineAt := time.Now().Add(window)

	acceptCtx, cancelAccept := context.WithCancel(ctx)
	defer cancelAccept()
	go func() {
		conn, addr, err := acceptOne(tcpListener, window)
		select {
		case acceptCh <- acceptResult{conn, addr, err}:
		case <-acceptCtx.Done():
			if conn != nil {
				conn.Close()
			}
		}
	}()

	advertCtx, cancelAdvert := context.WithCancel(ctx)
	defer cancelAdvert()
	armAdvertListener := func() {
		go func() {
			peerIP, peerPort, err := recvOneAdvert(udpListener, time.Until(deadlineAt))
			select {
			case advertCh <- advertResult{peerIP, peerPort, err}:
			case <-advertCtx.Done():
			}
		}()
	}
	armAdvertListener()

	deadline := time.After(window)
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()

		case r := <-acceptCh:
			if r.err != nil {
				// Timed out waiting for an accept; keep waiting for a
				// competing advert within the same window.
				acceptCh = nil
				continue
			}
			peer, _ := r.addr.(*net.TCPAddr)
			if tcp, ok := r.conn.(*net.TCPConn); ok {
				_ = tcp.SetDeadline(time.Now().Add(window))
			}
			return Result{Role: P1, Conn: r.conn, PeerAddr: peer, GameplayPort: gameplayPort}, nil

		case r := <-advertCh:
			if r.err != nil {
				advertCh = nil
				continue
			}
			peerKey := tieBreakerKey{ts: nowSeconds(), ip: r.peerIP, port: r.peerPort}
			if !peerKey.less(myKey) {
				// Peer doesn't win the tie-break; keep waiting for
				// either an accept or a further competing advert.
				if time.Until(deadlineAt) > 0 {
					armAdvertListener()
				}
				continue
			}

			// Demote myself and connect back as P2.
			tcpListener.Close()
			conn, derr := net.DialTimeout("tcp4", fmt.Sprintf("%s:%d", r.peerIP, r.peerPort), window)
			if derr != nil {
				// Could not connect; window keeps running via the
				// deadline case below.
				continue
			}
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetDeadline(time.Now().Add(window))
			}
			return Result{
				Role:         P2,
				Conn:         conn,
				PeerAddr:     &net.TCPAddr{IP: net.ParseIP(r.peerIP), Port: r.peerPort},
				GameplayPort: r.peerPort,
			}, nil

		case <-deadline:
			return Result{}, &rerr.DiscoveryError{Op: "window", Err: fmt.Errorf("no resolution within %s", window)}
		}
	}
}

func bindGameplayListener(window time.Duration) (int, *net.TCPListener, error) {
	candidates := rand.Perm(protocol.PortMax - protocol.PortMin + 1)
	for _, offset := range candidates {
		port := protocol.PortMin + offset
		ln, err := net.Listen("tcp4", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		tln := ln.(*net.TCPListener)
		if err := tln.SetDeadline(time.Now().Add(window)); err != nil {
			tln.Close()
			continue
		}
		return port, tln, nil
	}
	return 0, nil, fmt.Errorf("no free gameplay port in [%d, %d]", protocol.PortMin, protocol.PortMax)
}

func acceptOne(ln *net.TCPListener, window time.Duration) (net.Conn, net.Addr, error) {
	if err := ln.SetDeadline(time.Now().Add(window)); err != nil {
		return nil, nil, err
	}
	conn, err := ln.Accept()
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.RemoteAddr(), nil
}

func recvOneAdvert(udpListener *net.UDPConn, window time.Duration) (string, int, error) {
	if window <= 0 {
		window = time.Millisecond
	}
	if err := udpListener.SetReadDeadline(time.Now().Add(window)); err != nil {
		return "", 0, err
	}
	buf := make([]byte, 4096)
	n, addr, err := udpListener.ReadFromUDP(buf)
	if err != nil {
		return "", 0, err
	}
	port, err := protocol.DecodeNewGame(string(buf[:n]))
	if err != nil {
		return "", 0, err
	}
	return addr.IP.String(), port, nil
}

// bestEffortLocalIP guesses this host's outbound IPv4 address by
// dialing (without sending anything) toward the broadcast address;
// it falls back to the unspecified address if that fails.
func bestEffortLocalIP(broadcastAddr string) string {
	conn, err := net.Dial("udp4", fmt.Sprintf("%s:9", broadcastAddr))
	if err != nil {
		return "0.0.0.0"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "0.0.0.0"
}

// nowSeconds yields a timestamp for tie-breaker keys. Using wall time
// (as the source implementation does) rather than a monotonic clock is
// deliberate: advert timestamps need to be compared against a
// different peer's, so the clock must be wall-clock comparable even
// though that leaves residual skew on non-LAN networks (see the
// discovery design notes).
func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
