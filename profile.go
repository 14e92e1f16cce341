package seep

import (
	"fmt"
	"strings"
)

// Width is the number of word-address bytes a chip expects after its slave
// address.
type Width uint8

const (
	Addr8  Width = 1 // single address byte, parts up to 2 Kbytes
	Addr16 Width = 2 // high byte then low byte, larger parts
)

func (w Width) String() string {
	switch w {
	case Addr8:
		return "8-bit"
	case Addr16:
		return "16-bit"
	}
	return fmt.Sprintf("Width(%d)", uint8(w))
}

// Profile describes one chip family entry: capacity, page-write buffer size
// and word-address width. Immutable once constructed.
type Profile struct {
	Name       string
	TotalBytes int
	PageBytes  int
	Width      Width
}

// NewProfile builds a profile with the address width derived from capacity.
func NewProfile(name string, totalBytes, pageBytes int) Profile {
	w := Addr8
	if totalBytes > wideThreshold {
		w = Addr16
	}
	return Profile{Name: name, TotalBytes: totalBytes, PageBytes: pageBytes, Width: w}
}

// Validate reports whether the profile is internally consistent.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.TotalBytes <= 0 {
		return fmt.Errorf("profile %s: capacity %d is not positive", p.Name, p.TotalBytes)
	}
	if p.PageBytes <= 0 {
		return fmt.Errorf("profile %s: page size %d is not positive", p.Name, p.PageBytes)
	}
	switch p.Width {
	case Addr8:
		if p.TotalBytes > wideThreshold {
			return fmt.Errorf("profile %s: %d bytes needs 16-bit addressing", p.Name, p.TotalBytes)
		}
	case Addr16:
		if p.TotalBytes <= wideThreshold {
			return fmt.Errorf("profile %s: %d bytes needs 8-bit addressing", p.Name, p.TotalBytes)
		}
	default:
		return fmt.Errorf("profile %s: invalid address width %d", p.Name, p.Width)
	}
	return nil
}

// Catalog of generic 24Cxx parts. Page sizes follow the common vendor
// datasheets ([AT24C02D|Features], [24LC256|Table 1-1], [AT24CM01|Features]).
var catalog = []Profile{
	{Name: "24C01", TotalBytes: 128, PageBytes: 8, Width: Addr8},
	{Name: "24C02", TotalBytes: 256, PageBytes: 8, Width: Addr8},
	{Name: "24C04", TotalBytes: 512, PageBytes: 16, Width: Addr8},
	{Name: "24C08", TotalBytes: 1024, PageBytes: 16, Width: Addr8},
	{Name: "24C16", TotalBytes: 2048, PageBytes: 16, Width: Addr8},
	{Name: "24C32", TotalBytes: 4096, PageBytes: 32, Width: Addr16},
	{Name: "24C64", TotalBytes: 8192, PageBytes: 32, Width: Addr16},
	{Name: "24C128", TotalBytes: 16384, PageBytes: 64, Width: Addr16},
	{Name: "24C256", TotalBytes: 32768, PageBytes: 64, Width: Addr16},
	{Name: "24C512", TotalBytes: 65536, PageBytes: 128, Width: Addr16},
	{Name: "24C1024", TotalBytes: 131072, PageBytes: 128, Width: Addr16},
}

// Profiles returns the built-in catalog ordered by capacity.
func Profiles() []Profile {
	out := make([]Profile, len(catalog))
	copy(out, catalog)
	return out
}

// LookupProfile finds a catalog entry by name. Vendor-prefixed and
// letter-variant names (AT24C02, M24C02, CAT24C02, 24LC02, 24AA02) resolve
// to the generic entry.
func LookupProfile(name string) (Profile, bool) {
	canon := canonicalName(name)
	for _, p := range catalog {
		if p.Name == canon {
			return p, true
		}
	}
	return Profile{}, false
}

func profileBySize(totalBytes int) (Profile, bool) {
	for _, p := range catalog {
		if p.TotalBytes == totalBytes {
			return p, true
		}
	}
	return Profile{}, false
}

// canonicalName maps a vendor part number onto the generic 24Cxx name:
// uppercase, drop the manufacturer prefix before "24", and collapse the
// series letters (C, LC, AA, FC, ...) to C.
func canonicalName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	i := strings.Index(s, "24")
	if i < 0 {
		return s
	}
	rest := s[i+2:]
	j := 0
	for j < len(rest) && rest[j] >= 'A' && rest[j] <= 'Z' {
		j++
	}
	k := j
	for k < len(rest) && rest[k] >= '0' && rest[k] <= '9' {
		k++
	}
	if k == j {
		return s
	}
	return "24C" + rest[j:k]
}
