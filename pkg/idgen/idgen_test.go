package idgen

import (
	"regexp"
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^tg-[0-9a-f]{8}$`)

	id, err := Generate(PrefixTaskGroup)
	if err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}

	if !pattern.MatchString(id) {
		t.Errorf("Generate() = %v, want format tg-[0-9a-f]{8}", id)
	}
}

func TestGenerate_Unique(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate(PrefixTask)
		if err != nil {
			t.Fatalf("Generate() returned error: %v", err)
		}
		if ids[id] {
			t.Errorf("Generate() returned duplicate ID: %v", id)
		}
		ids[id] = true
	}
}

func TestGenerate_PrefixPerEntity(t *testing.T) {
	tests := []struct {
		prefix string
		want   *regexp.Regexp
	}{
		{PrefixDevice, regexp.MustCompile(`^dv-`)},
		{PrefixSparePart, regexp.MustCompile(`^sp-`)},
		{PrefixUser, regexp.MustCompile(`^us-`)},
		{PrefixShift, regexp.MustCompile(`^sh-`)},
		{PrefixHoliday, regexp.MustCompile(`^hd-`)},
	}

	for _, tt := range tests {
		id := MustGenerate(tt.prefix)
		if !tt.want.MatchString(id) {
			t.Errorf("MustGenerate(%q) = %v", tt.prefix, id)
		}
	}
}
