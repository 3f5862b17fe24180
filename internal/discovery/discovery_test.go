package discovery

import "testing"

func TestTieBreakerLowerIPWinsOnEqualTimestamp(t *testing.T) {
	a := tieBreakerKey{ts: 100.0, ip: "10.0.0.1", port: 9050}
	b := tieBreakerKey{ts: 100.0, ip: "10.0.0.2", port: 9050}

	if !a.less(b) {
		t.Fatalf("expected lower IP to win: %+v should be less than %+v", a, b)
	}
	if b.less(a) {
		t.Fatalf("higher IP must not win: %+v should not be less than %+v", b, a)
	}
}

func TestTieBreakerLowerPortWinsOnEqualIPAndTimestamp(t *testing.T) {
	a := tieBreakerKey{ts: 100.0, ip: "10.0.0.1", port: 9010}
	b := tieBreakerKey{ts: 100.0, ip: "10.0.0.1", port: 9020}

	if !a.less(b) {
		t.Fatalf("expected lower port to win: %+v should be less than %+v", a, b)
	}
}

func TestTieBreakerEarlierTimestampWinsRegardlessOfIPOrPort(t *testing.T) {
	a := tieBreakerKey{ts: 99.0, ip: "255.255.255.255", port: 9100}
	b := tieBreakerKey{ts: 100.0, ip: "1.0.0.1", port: 9000}

	if !a.less(b) {
		t.Fatalf("expected earlier timestamp to win regardless of ip/port")
	}
}

func TestTieBreakerIsStrictLessThanNotLessOrEqual(t *testing.T) {
	k := tieBreakerKey{ts: 100.0, ip: "10.0.0.1", port: 9050}
	if k.less(k) {
		t.Fatalf("a key must not be less than itself: ties must not flip either peer")
	}
}

func TestRoleStringAndColour(t *testing.T) {
	if P1.String() != "P1" || P1.Colour() != "black" {
		t.Fatalf("P1 should be black, got %s/%s", P1.String(), P1.Colour())
	}
	if P2.String() != "P2" || P2.Colour() != "white" {
		t.Fatalf("P2 should be white, got %s/%s", P2.String(), P2.Colour())
	}
}
