package session

import (
	"net"
	"testing"
	"time"

	"github.com/ehrlich-b/reversi/internal/board"
	"github.com/ehrlich-b/reversi/internal/rerr"
	"github.com/ehrlich-b/reversi/internal/transport"
	"github.com/ehrlich-b/reversi/internal/ui"
)

// scriptedCollaborator answers ChooseMove from a queue of pre-picked
// coordinates, matching legal moves by (row, col); it never needs to
// see a real terminal.
type scriptedCollaborator struct {
	moves []board.Move
	quit  bool
}

func (c *scriptedCollaborator) Announce(ui.Event) {}

func (c *scriptedCollaborator) ChooseMove(b board.Board, colour board.Colour, legal []board.Move) (int, bool) {
	if c.quit {
		return 0, true
	}
	if len(c.moves) == 0 {
		return 0, false
	}
	want := c.moves[0]
	c.moves = c.moves[1:]
	for i, m := range legal {
		if m.Row == want.Row && m.Col == want.Col {
			return i, false
		}
	}
	return 0, false
}

func tcpPipe(t *testing.T) (*transport.Conn, *transport.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	var server net.Conn
	done := make(chan struct{})
	go func() {
		server, _ = ln.Accept()
		close(done)
	}()
	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-done

	a := transport.New(client)
	b := transport.New(server)
	a.SetTimeout(2 * time.Second)
	b.SetTimeout(2 * time.Second)
	return a, b
}

func TestLocalTurnSendsEncodedMoveAndAppliesItToTheReturnedBoard(t *testing.T) {
	connP1, connP2 := tcpPipe(t)
	defer connP1.Close()
	defer connP2.Close()

	d := New(connP1, RoleP1, &scriptedCollaborator{moves: []board.Move{{Row: 2, Col: 3}}})

	status, next, done, err := d.takeLocalTurn(board.Initial(), 1, nil, new(int))
	if err != nil || done {
		t.Fatalf("unexpected done/err: done=%v err=%v", done, err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	if !next.set {
		t.Fatal("expected a board update for a real move")
	}

	line, err := connP2.RecvLine()
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if line != "MOVE:2,3" {
		t.Fatalf("got %q, want MOVE:2,3", line)
	}

	black, white := 0, 0
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			switch col, ok := next.board.ColourAt(r, c); {
			case !ok:
			case col == board.Black:
				black++
			default:
				white++
			}
		}
	}
	if black != 4 || white != 1 {
		t.Fatalf("after Black's opening move: black=%d white=%d, want 4/1", black, white)
	}
}

func TestUserAbortSendsErrorAndReturnsUserAbortStatus(t *testing.T) {
	connP1, connP2 := tcpPipe(t)
	defer connP2.Close()

	d1 := New(connP1, RoleP1, &scriptedCollaborator{quit: true})

	status, err := d1.Run()
	if status != StatusUserAbort {
		t.Fatalf("status = %v, want StatusUserAbort", status)
	}
	if err != rerr.ErrUserAbort {
		t.Fatalf("err = %v, want ErrUserAbort", err)
	}

	line, rerr2 := connP2.RecvLine()
	if rerr2 != nil {
		t.Fatalf("expected ERROR line from aborting peer: %v", rerr2)
	}
	if line != "ERROR" {
		t.Fatalf("got %q, want ERROR", line)
	}
}

func TestMalformedPeerLineTerminatesWithProtocolViolation(t *testing.T) {
	connP1, connP2 := tcpPipe(t)
	defer connP1.Close()

	d2 := New(connP2, RoleP2, &scriptedCollaborator{})

	done := make(chan struct{})
	var status Status
	go func() {
		status, _ = d2.Run()
		close(done)
	}()

	if err := connP1.SendLine("HELLO:WORLD"); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	if status != StatusProtocolViolation {
		t.Fatalf("status = %v, want StatusProtocolViolation", status)
	}

	line, err := connP1.RecvLine()
	if err != nil || line != "ERROR" {
		t.Fatalf("expected ERROR back from receiver, got %q, err=%v", line, err)
	}
}
