package util

import "testing"

func TestServerMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"invalid credentials"}`, "invalid credentials"},
		{`{"error":"boom"}`, "boom"},
		{`{"message":"first","error":"second"}`, "first"},
		{`not json`, "not json"},
		{``, ""},
	}
	for _, c := range cases {
		if got := ServerMessage([]byte(c.body)); got != c.want {
			t.Errorf("ServerMessage(%q) = %q, want %q", c.body, got, c.want)
		}
	}
}
