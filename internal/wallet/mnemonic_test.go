package wallet

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateMnemonic_WordCounts(t *testing.T) {
	engine := NewMnemonicEngine(nil)
	for _, words := range []int{12, 15, 18, 21, 24} {
		mnemonic, err := engine.Generate(words)
		if err != nil {
			t.Fatalf("Generate(%d) error: %v", words, err)
		}
		if got := len(strings.Fields(mnemonic)); got != words {
			t.Errorf("Generate(%d) word count = %d", words, got)
		}
		if !engine.Validate(mnemonic) {
			t.Errorf("Generate(%d) produced invalid mnemonic", words)
		}
	}
}

func TestGenerateMnemonic_InvalidWordCount(t *testing.T) {
	engine := NewMnemonicEngine(nil)
	for _, words := range []int{0, 11, 13, 16, 25} {
		if _, err := engine.Generate(words); !errors.Is(err, ErrInvalidWordCount) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidWordCount", words, err)
		}
	}
}

func TestGenerateMnemonic_Unique(t *testing.T) {
	engine := NewMnemonicEngine(nil)
	m1, err := engine.Generate(DefaultWordCount)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	m2, err := engine.Generate(DefaultWordCount)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if m1 == m2 {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestGenerateMnemonic_KnownEntropy(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{12, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"},
		{24, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"},
	}
	for _, tt := range tests {
		engine := NewMnemonicEngine(bytes.NewReader(make([]byte, 32)))
		got, err := engine.Generate(tt.words)
		if err != nil {
			t.Fatalf("Generate(%d) error: %v", tt.words, err)
		}
		if got != tt.want {
			t.Errorf("Generate(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestGenerateMnemonic_ShortEntropy(t *testing.T) {
	engine := NewMnemonicEngine(bytes.NewReader(make([]byte, 4)))
	if _, err := engine.Generate(12); err == nil {
		t.Error("Generate should fail when the entropy source runs dry")
	}
}

func TestEntropyBits(t *testing.T) {
	want := map[int]int{12: 128, 15: 160, 18: 192, 21: 224, 24: 256}
	for words, bits := range want {
		got, err := EntropyBits(words)
		if err != nil {
			t.Fatalf("EntropyBits(%d) error: %v", words, err)
		}
		if got != bits {
			t.Errorf("EntropyBits(%d) = %d, want %d", words, got, bits)
		}
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{
			name:     "valid 24-word BIP-39",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
			valid:    true,
		},
		{
			name:     "valid 12-word BIP-39",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
			valid:    true,
		},
		{
			name:     "empty string",
			mnemonic: "",
			valid:    false,
		},
		{
			name:     "random words",
			mnemonic: "not a valid mnemonic phrase at all",
			valid:    false,
		},
		{
			name:     "wrong checksum",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
			valid:    false,
		},
		{
			name:     "single word",
			mnemonic: "abandon",
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}
