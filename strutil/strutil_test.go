package strutil

import "testing"

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"HelloWorld":    "hello_world",
		"hello world":   "hello_world",
		"hello-world":   "hello_world",
		"HTTPServer":    "http_server",
		"already_snake": "already_snake",
		"Agent1":        "agent1",
		"My Fancy-Tool": "my_fancy_tool",
		"":              "",
	}
	for in, want := range cases {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"hello world":   "HelloWorld",
		"hello_world":   "HelloWorld",
		"hello-world":   "HelloWorld",
		"AlreadyPascal": "AlreadyPascal",
		"HTTPServer":    "HTTPServer",
		"fooBar":        "Foobar",
		"my fancy tool": "MyFancyTool",
		"":              "",
	}
	for in, want := range cases {
		if got := PascalCase(in); got != want {
			t.Errorf("PascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}
