package seep

import "testing"

func TestLookupProfile(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"24C02", "24C02", true},
		{"24c512", "24C512", true},
		{"AT24C02", "24C02", true},
		{"at24c02d", "24C02", true},
		{"M24C64", "24C64", true},
		{"CAT24C04", "24C04", true},
		{"24LC256", "24C256", true},
		{"24AA1024", "24C1024", true},
		{" 24C16 ", "24C16", true},
		{"25Q32", "", false},
		{"24CXX", "", false},
		{"24C42", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		p, ok := LookupProfile(tc.in)
		if ok != tc.ok {
			t.Errorf("LookupProfile(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && p.Name != tc.want {
			t.Errorf("LookupProfile(%q) = %s, want %s", tc.in, p.Name, tc.want)
		}
	}
}

func TestProfileValidate(t *testing.T) {
	cases := []struct {
		name    string
		p       Profile
		wantErr bool
	}{
		{"catalog entry", Profile{Name: "24C02", TotalBytes: 256, PageBytes: 8, Width: Addr8}, false},
		{"largest narrow", Profile{Name: "24C16", TotalBytes: 2048, PageBytes: 16, Width: Addr8}, false},
		{"smallest wide", Profile{Name: "24C32", TotalBytes: 4096, PageBytes: 32, Width: Addr16}, false},
		{"no name", Profile{TotalBytes: 256, PageBytes: 8, Width: Addr8}, true},
		{"zero capacity", Profile{Name: "x", PageBytes: 8, Width: Addr8}, true},
		{"zero page", Profile{Name: "x", TotalBytes: 256, Width: Addr8}, true},
		{"narrow too big", Profile{Name: "x", TotalBytes: 4096, PageBytes: 32, Width: Addr8}, true},
		{"wide too small", Profile{Name: "x", TotalBytes: 256, PageBytes: 8, Width: Addr16}, true},
		{"bad width", Profile{Name: "x", TotalBytes: 256, PageBytes: 8, Width: 3}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestProfilesReturnsCopy(t *testing.T) {
	ps := Profiles()
	if len(ps) == 0 {
		t.Fatal("empty catalog")
	}
	ps[0].TotalBytes = 1

	p, ok := LookupProfile(ps[0].Name)
	if !ok {
		t.Fatalf("%s vanished from catalog", ps[0].Name)
	}
	if p.TotalBytes == 1 {
		t.Error("mutating the returned slice changed the catalog")
	}
}

func TestCatalogConsistent(t *testing.T) {
	for _, p := range Profiles() {
		if err := p.Validate(); err != nil {
			t.Errorf("catalog entry %s: %v", p.Name, err)
		}
	}
}

func TestWidthString(t *testing.T) {
	if Addr8.String() != "8-bit" {
		t.Errorf("Addr8 = %q", Addr8.String())
	}
	if Addr16.String() != "16-bit" {
		t.Errorf("Addr16 = %q", Addr16.String())
	}
}
