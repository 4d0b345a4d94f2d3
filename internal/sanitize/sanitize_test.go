package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextStripsMarkup(t *testing.T) {
	cases := map[string]string{
		"Hello":                                  "Hello",
		"  padded  ":                             "padded",
		"<script>alert('x')</script>Hello":       "Hello",
		"<b>Bold</b> choice":                     "Bold choice",
		"<img src=x onerror=alert(1)>plain":      "plain",
		"Tabs or spaces?":                        "Tabs or spaces?",
		"a < b and b > c":                        "a < b and b > c",
		"&lt;script&gt;alert('x')&lt;/script&gt;": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Text(in), "input %q", in)
	}
}

func TestTextIsIdempotent(t *testing.T) {
	inputs := []string{
		"Hello",
		"<script>alert('x')</script>Hello",
		"a < b and b > c",
		"&lt;b&gt;nested&lt;/b&gt;",
		"  <i>mixed</i> &amp; matched  ",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestOptions(t *testing.T) {
	got := Options([]string{" <b>Red</b> ", "Blue", "<script>x</script>"})
	assert.Equal(t, []string{"Red", "Blue", ""}, got)
}
