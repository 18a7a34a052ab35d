package asm

import "testing"

func TestLocationEqual(tt *testing.T) {
	tt.Parallel()

	tt.Run("addresses", func(tt *testing.T) {
		if !A.Equal(Addr(3)) {
			tt.Errorf("A != Addr(3)")
		}

		if A.Equal(B) {
			tt.Errorf("A == B")
		}
	})

	tt.Run("offset of offset", func(tt *testing.T) {
		// Offset(Offset(L, a), b) is semantically equivalent to
		// Offset(L, a+b) -- invariant 2.
		nested := Offset(Offset(A, 2), 3)
		flat := Offset(A, 5)

		if !nested.Equal(flat) {
			tt.Errorf("Offset(Offset(A,2),3) != Offset(A,5)")
		}
	})

	tt.Run("indirect is not simplified", func(tt *testing.T) {
		once := Indirect(A)
		twice := Indirect(Indirect(A))

		if once.Equal(twice) {
			tt.Errorf("Indirect(A) == Indirect(Indirect(A))")
		}
	})
}

// TestPointerRestoration exercises invariant 1: executing To(L) then From(L)
// for any Location returns the builder's emitted movement to net zero.
func TestPointerRestoration(tt *testing.T) {
	tt.Parallel()

	locations := []Location{
		Addr(5),
		Offset(Addr(5), 3),
		Indirect(Addr(5)),
		Offset(Indirect(Addr(5)), -2),
		Indirect(Offset(Addr(2), 1)),
	}

	for _, loc := range locations {
		loc := loc

		tt.Run(loc.String(), func(tt *testing.T) {
			var b Builder
			loc.To(&b)
			loc.From(&b)

			net := netMovement(b.Ops)
			if net != 0 {
				tt.Errorf("%s: net pointer movement = %d, want 0", loc, net)
			}

			if depth := netRefDepth(b.Ops); depth != 0 {
				tt.Errorf("%s: net reference stack depth = %d, want 0", loc, depth)
			}
		})
	}
}
