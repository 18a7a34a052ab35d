package vm

import "testing"

func TestCellViews(tt *testing.T) {
	tt.Parallel()

	tt.Run("int round-trips", func(tt *testing.T) {
		c := IntCell(-42)
		if got := c.Int(); got != -42 {
			tt.Errorf("Int() = %d, want -42", got)
		}
	})

	tt.Run("float round-trips", func(tt *testing.T) {
		c := FloatCell(0.5)
		if got := c.Float(); got != 0.5 {
			tt.Errorf("Float() = %v, want 0.5", got)
		}
	})

	tt.Run("addr round-trips", func(tt *testing.T) {
		c := AddrCell(Address(100))
		if got := c.Addr(); got != 100 {
			tt.Errorf("Addr() = %s, want @100", got)
		}
	})

	tt.Run("same bits, different disciplines", func(tt *testing.T) {
		c := IntCell(100)
		if c.Addr() != Address(100) {
			tt.Errorf("Addr() = %s, want @100", c.Addr())
		}
	})
}
