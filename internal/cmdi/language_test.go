package cmdi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLanguageLookup(t *testing.T) {
	tests := []struct {
		code   string
		want   Language
		wantOK bool
	}{
		{"en", Language{Name: "English", Code: "eng"}, true},
		{"de", Language{Name: "German", Code: "deu"}, true},
		{"deu", Language{Name: "German", Code: "deu"}, true},
		{"ger", Language{Name: "German", Code: "deu"}, true},
		{"fre", Language{Name: "French", Code: "fra"}, true},
		{"FRE", Language{Name: "French", Code: "fra"}, true},
		{"dut", Language{Name: "Dutch", Code: "nld"}, true},
		{"xx", Language{}, false},
		{"english", Language{}, false},
		{"", Language{}, false},
	}

	table := NewLanguageTable()
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := table.Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lookup(%q) mismatch (-want +got):\n%s", tt.code, diff)
			}
		})
	}
}
