package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{500, "500"},
		{1500, "1.500"},
		{90000, "90.000"},
		{150000, "150.000"},
		{1500000, "1.500.000"},
		{-25000, "-25.000"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Format(c.in))
	}
}

func TestParse(t *testing.T) {
	n, err := Parse("1.500.000")
	assert.NoError(t, err)
	assert.Equal(t, int64(1500000), n)

	n, err = Parse("500")
	assert.NoError(t, err)
	assert.Equal(t, int64(500), n)

	n, err = Parse("-25.000")
	assert.NoError(t, err)
	assert.Equal(t, int64(-25000), n)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse("12a.000")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 999, 1000, 90000, 150000, 1500000, 987654321} {
		got, err := Parse(Format(n))
		assert.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
