package kernel

import "testing"

func TestErrorImplementsErrorInterface(t *testing.T) {
	err := &Error{Module: "test", Message: "something broke"}

	var iface error = err
	if exp, got := "something broke", iface.Error(); exp != got {
		t.Fatalf("expected Error() to return %q; got %q", exp, got)
	}
}
