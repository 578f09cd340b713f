package webutil_test

import (
	"testing"

	"github.com/jmcelroy/docent/webutil"
)

func TestGenerateHash(t *testing.T) {
	got, err := webutil.GenerateHash("hello")
	if err != nil {
		t.Fatalf("GenerateHash() error = %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("GenerateHash(hello) = %s, want %s", got, want)
	}
}

func TestCanonicalJSONMD5IgnoresKeyOrderAndWhitespace(t *testing.T) {
	a, err := webutil.CanonicalJSONMD5(`{"b": 1, "a": [1, 2]}`)
	if err != nil {
		t.Fatalf("CanonicalJSONMD5() error = %v", err)
	}
	b, err := webutil.CanonicalJSONMD5("{\"a\":[1,2],\n  \"b\":1}")
	if err != nil {
		t.Fatalf("CanonicalJSONMD5() error = %v", err)
	}
	if a != b {
		t.Errorf("hashes differ for equivalent documents: %s vs %s", a, b)
	}

	c, err := webutil.CanonicalJSONMD5(`{"a":[2,1],"b":1}`)
	if err != nil {
		t.Fatalf("CanonicalJSONMD5() error = %v", err)
	}
	if a == c {
		t.Errorf("hashes should differ for different documents")
	}
}

func TestCanonicalJSONMD5RejectsInvalidJSON(t *testing.T) {
	if _, err := webutil.CanonicalJSONMD5("{nope"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
