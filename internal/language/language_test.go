package language

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		code string
		want string
		ok   bool
	}{
		{"ar", "Arabic", true},
		{"EN", "English", true},
		{" auto ", "Auto-detect", true},
		{"zz", "", false},
	}
	for _, tc := range cases {
		lang, ok := Lookup(tc.code)
		if ok != tc.ok || lang.Name != tc.want {
			t.Fatalf("Lookup(%q) = (%q, %v), want (%q, %v)", tc.code, lang.Name, ok, tc.want, tc.ok)
		}
	}
}

func TestArabicIsRTL(t *testing.T) {
	lang, ok := GetLanguage("ar")
	if !ok || !lang.RTL {
		t.Fatalf("expected ar to be a right-to-left language, got %+v", lang)
	}
}

func TestGetSupportedLanguages_Sorted(t *testing.T) {
	entries := GetSupportedLanguages()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Name > entries[i].Name {
			t.Fatalf("entries not sorted at %d: %q > %q", i, entries[i-1].Name, entries[i].Name)
		}
	}
}
