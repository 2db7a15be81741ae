package transcript

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=abc12345678", "abc12345678"},
		{"watch url no www", "https://youtube.com/watch?v=abc12345678", "abc12345678"},
		{"short url", "https://youtu.be/abc12345678", "abc12345678"},
		{"short url with query", "https://youtu.be/abc12345678?t=42", "abc12345678"},
		{"no scheme", "youtube.com/watch?v=abc12345678", "abc12345678"},
		{"extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL1", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractVideoIDInvalid(t *testing.T) {
	cases := []string{
		"",
		"https://vimeo.com/12345",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=tooshort",
		"https://youtu.be/",
		"not a url at all",
		"https://evil.com/watch?v=abc12345678",
	}

	for _, url := range cases {
		if _, err := ExtractVideoID(url); !errors.Is(err, ErrInvalidVideoURL) {
			t.Errorf("ExtractVideoID(%q): got err %v, want ErrInvalidVideoURL", url, err)
		}
	}
}
