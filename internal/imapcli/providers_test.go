package imapcli

import "testing"

func TestLookupProvider(t *testing.T) {
	p, err := LookupProvider("gmail")
	if err != nil {
		t.Fatalf("LookupProvider: %v", err)
	}
	if p.Host != "imap.gmail.com" || p.Port != 993 {
		t.Fatalf("gmail preset = %+v", p)
	}

	if _, err := LookupProvider("pigeon-post"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestProvidersSortedAndComplete(t *testing.T) {
	list := Providers()
	if len(list) != 5 {
		t.Fatalf("providers = %d, want 5", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Fatalf("providers not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
	for _, p := range list {
		if p.Host == "" || p.Port != 993 {
			t.Fatalf("incomplete preset: %+v", p)
		}
	}
}
