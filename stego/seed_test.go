package stego

import (
	"errors"
	"testing"
)

func TestParseSeedSpec(t *testing.T) {
	cases := []struct {
		in   string
		want SeedSpec
	}{
		{"", SeedSpec{Kind: SeedNone}},
		{"0", SeedSpec{Kind: SeedLiteral, Value: 0}},
		{"12345", SeedSpec{Kind: SeedLiteral, Value: 12345}},
		{"9223372036854775807", SeedSpec{Kind: SeedLiteral, Value: 1<<63 - 1}},
		{"password", SeedSpec{Kind: SeedPassword}},
		{"PassWord", SeedSpec{Kind: SeedPassword}},
		{"image", SeedSpec{Kind: SeedImage}},
		{"IMAGE", SeedSpec{Kind: SeedImage}},
		{"my secret seed", SeedSpec{Kind: SeedToken, Token: "my secret seed"}},
		{"-5", SeedSpec{Kind: SeedToken, Token: "-5"}},
		{"12ab", SeedSpec{Kind: SeedToken, Token: "12ab"}},
	}

	for _, tc := range cases {
		got, err := ParseSeedSpec(tc.in)
		if err != nil {
			t.Errorf("ParseSeedSpec(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSeedSpec(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseSeedSpec("9223372036854775808"); err == nil {
		t.Error("64-bit literal accepted")
	}
}

func TestHashToSeed(t *testing.T) {
	cases := map[string]uint64{
		"":            1120186595,
		"pw":          2052245808,
		"password":    407406686,
		"hello world": 958877113,
	}
	for in, want := range cases {
		if got := HashToSeed([]byte(in)); got != want {
			t.Errorf("HashToSeed(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	image := []byte("raw image file bytes")

	cases := []struct {
		spec          string
		password      string
		wantSeed      uint64
		wantScrambled bool
	}{
		{"", "pw", 0, false},
		{"77", "", 77, true},
		{"password", "pw", HashToSeed([]byte("pw")), true},
		{"Password", "pw", HashToSeed([]byte("pw")), true},
		{"image", "", HashToSeed(image), true},
		{"hello world", "", 958877113, true},
	}

	for _, tc := range cases {
		spec, err := ParseSeedSpec(tc.spec)
		if err != nil {
			t.Fatal(err)
		}
		seed, scrambled, err := spec.Resolve(tc.password, image)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tc.spec, err)
			continue
		}
		if seed != tc.wantSeed || scrambled != tc.wantScrambled {
			t.Errorf("Resolve(%q) = %d, %v; want %d, %v", tc.spec, seed, scrambled, tc.wantSeed, tc.wantScrambled)
		}
	}
}

func TestResolvePasswordSeedWithoutPassword(t *testing.T) {
	spec, _ := ParseSeedSpec("password")
	if _, _, err := spec.Resolve("", nil); !errors.Is(err, ErrMissingPassword) {
		t.Errorf("err = %v, want ErrMissingPassword", err)
	}
}

func TestTokenAndPasswordSeedsAgree(t *testing.T) {
	token, _ := ParseSeedSpec("hunter2")
	byToken, _, _ := token.Resolve("", nil)

	pw, _ := ParseSeedSpec("password")
	byPassword, _, _ := pw.Resolve("hunter2", nil)

	if byToken != byPassword {
		t.Errorf("token seed %d != password seed %d", byToken, byPassword)
	}
}
