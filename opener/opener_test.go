package opener

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCheckURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/post/1", false},
		{"http://example.com", false},
		{"javascript:alert(1)", true},
		{"file:///etc/passwd", true},
		{"/relative/path", true},
		{"://bad", true},
	}
	for _, tc := range tests {
		if err := CheckURL(tc.url); (err != nil) != tc.wantErr {
			t.Errorf("CheckURL(%q) error = %v, wantErr %v", tc.url, err, tc.wantErr)
		}
	}
}

func TestLogOpener(t *testing.T) {
	var buf bytes.Buffer
	o := Log{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	if err := o.Open("https://example.com/a"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "https://example.com/a") {
		t.Errorf("log output %q does not mention the link", buf.String())
	}
	if err := o.Open("ftp://example.com"); err == nil {
		t.Error("Open accepted an ftp link")
	}
}
