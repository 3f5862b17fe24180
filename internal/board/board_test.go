package board

import "testing"

func TestInitialLayout(t *testing.T) {
	b := Initial()

	want := map[[2]int]Colour{
		{3, 3}: White,
		{4, 4}: White,
		{3, 4}: Black,
		{4, 3}: Black,
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			col, ok := b.ColourAt(r, c)
			wantCol, wantOK := want[[2]int{r, c}]
			if ok != wantOK || (ok && col != wantCol) {
				t.Errorf("cell (%d,%d): got colour=%v ok=%v, want colour=%v ok=%v", r, c, col, ok, wantCol, wantOK)
			}
		}
	}

	black, white, empty := b.Counts()
	if black != 2 || white != 2 || empty != 60 {
		t.Errorf("counts = (%d,%d,%d), want (2,2,60)", black, white, empty)
	}
}

func TestOppositeIsTotalAndInvolutive(t *testing.T) {
	if Black.Opposite() != White || White.Opposite() != Black {
		t.Fatal("Opposite must swap Black and White")
	}
	if Black.Opposite().Opposite() != Black {
		t.Fatal("Opposite must be involutive")
	}
}

func TestWithStoneDoesNotMutateReceiver(t *testing.T) {
	b := Initial()
	b2 := b.WithStone(0, 0, Black)

	if col, ok := b.ColourAt(0, 0); ok {
		t.Fatalf("original board mutated: (0,0) = %v", col)
	}
	col, ok := b2.ColourAt(0, 0)
	if !ok || col != Black {
		t.Fatalf("new board missing stone at (0,0): colour=%v ok=%v", col, ok)
	}
	if b.Equal(b2) {
		t.Fatal("boards should differ after WithStone")
	}
}

func TestInBounds(t *testing.T) {
	cases := []struct {
		r, c int
		want bool
	}{
		{0, 0, true}, {7, 7, true}, {-1, 0, false}, {0, -1, false},
		{8, 0, false}, {0, 8, false},
	}
	for _, tc := range cases {
		if got := InBounds(tc.r, tc.c); got != tc.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", tc.r, tc.c, got, tc.want)
		}
	}
}
