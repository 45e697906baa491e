package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Juan@Acme.com", "j…@a….com"},
		{"a@b.io", "a@b.io"},
		{"  ", ""},
		{"abc", "***"},
		{"nodomain", "n…n"},
		{"@acme.com", "@…m"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MaskEmail(tc.in), tc.in)
	}
}
