package checksum

import "testing"

func TestSum(t *testing.T) {
	// SHA-256 of the empty input is a well-known constant.
	if got := Sum(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum(nil) = %q", got)
	}
	a := Sum([]byte("alpha"))
	if len(a) != 64 {
		t.Errorf("len = %d", len(a))
	}
	if a == Sum([]byte("beta")) {
		t.Error("different inputs produced identical digests")
	}
	if a != Sum([]byte("alpha")) {
		t.Error("digest not deterministic")
	}
}
