package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextStripsTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Senior Gopher", want: "Senior Gopher"},
		{name: "script removed", input: `<script>alert(1)</script>Acme`, want: "Acme"},
		{name: "formatting stripped", input: "<b>Big</b> Corp", want: "Big Corp"},
		{name: "whitespace trimmed", input: "  spaced out  ", want: "spaced out"},
		{name: "empty stays empty", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Text(tc.input))
		})
	}
}
