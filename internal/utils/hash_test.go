package utils

import "testing"

func TestHashStringToUint64Stable(t *testing.T) {
	if HashStringToUint64("customers") != HashStringToUint64("customers") {
		t.Fatalf("expected stable hash")
	}
	if HashStringToUint64("customers") == HashStringToUint64("partners") {
		t.Fatalf("expected different hashes")
	}
}

func TestHashPartsSeparatesParts(t *testing.T) {
	if HashParts("ab", "c") == HashParts("a", "bc") {
		t.Fatalf("expected part boundaries to change the hash")
	}
	if HashParts("solo") != HashStringToUint64("solo") {
		t.Fatalf("expected a single part to match HashStringToUint64")
	}
}
