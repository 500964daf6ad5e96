package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"orders", 10, "orders"},
		{"  orders  ", 10, "orders"},
		{"orders-dead-letter", 10, "orders-..."},
		{"orders", 2, "or"},
		{"orders", 0, "orders"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := truncateMiddle("https://sqs.us-east-1.amazonaws.com/123/orders", 21)
	if want := "https://sq…123/orders"; got != want {
		t.Fatalf("truncateMiddle = %q, want %q", got, want)
	}
	if got := truncateMiddle("short", 10); got != "short" {
		t.Fatalf("truncateMiddle(short) = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q, want %q", got, "ab  ")
	}
	if got := padRight("abcd", 2); got != "abcd" {
		t.Fatalf("padRight should not cut, got %q", got)
	}
}
