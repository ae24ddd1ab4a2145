package money_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/batchledger/pkg/money"
)

func TestParseRejectsExtraPrecision(t *testing.T) {
	_, err := money.Parse("1.23456")
	require.ErrorIs(t, err, money.ErrNotRepresentable)
}

func TestParseExact(t *testing.T) {
	m, err := money.Parse("1.2345")
	require.NoError(t, err)
	require.Equal(t, "1.2345", m.String())
}

func TestArithmeticIsExact(t *testing.T) {
	a, err := money.Parse("1.2345")
	require.NoError(t, err)
	b, err := money.Parse("0.0001")
	require.NoError(t, err)
	c, err := money.Parse("0.2346")
	require.NoError(t, err)

	got := a.Add(b).Sub(c)
	want, err := money.Parse("1.0000")
	require.NoError(t, err)

	require.Zero(t, got.Cmp(want))
	require.Equal(t, "1.0", got.String())
}

func TestStringStripsTrailingZerosKeepsOneDigit(t *testing.T) {
	cases := map[string]string{
		"1.5000": "1.5",
		"2.0000": "2.0",
		"0.0000": "0.0",
		"1.2300": "1.23",
	}

	for in, want := range cases {
		m, err := money.Parse(in)
		require.NoError(t, err)
		require.Equal(t, want, m.String())
	}
}

func TestNegativeAllowed(t *testing.T) {
	a, err := money.Parse("30")
	require.NoError(t, err)
	b, err := money.Parse("100")
	require.NoError(t, err)

	got := a.Sub(b)
	require.True(t, got.IsNegative())
	require.Equal(t, "-70.0", got.String())
}
