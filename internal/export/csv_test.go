package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCSVQuotesEveryValue(t *testing.T) {
	got := EncodeCSV(
		[]string{"id", "note"},
		[][]string{
			{"1", "plain"},
			{"2", `said "hello", left`},
			{"3", ""},
		},
	)
	want := `"id","note"
"1","plain"
"2","said ""hello"", left"
"3",""`
	assert.Equal(t, want, string(got))
}

func TestEncodeCSVHeaderOnly(t *testing.T) {
	got := EncodeCSV([]string{"a", "b"}, nil)
	assert.Equal(t, `"a","b"`, string(got))
}
