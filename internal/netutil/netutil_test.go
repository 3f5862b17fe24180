package netutil

import (
	"runtime"
	"testing"
)

func TestListenUDPReusableAllowsSecondBindOnLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("SO_REUSEPORT bind sharing only verified on linux")
	}

	a, err := ListenUDPReusable(":19191")
	if err != nil {
		t.Fatalf("first bind: %v", err)
	}
	defer a.Close()

	b, err := ListenUDPReusable(":19191")
	if err != nil {
		t.Fatalf("second bind should succeed with reuse set: %v", err)
	}
	defer b.Close()
}
