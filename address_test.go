package seep

import (
	"bytes"
	"testing"
)

func TestWordAddressNarrow(t *testing.T) {
	cases := []struct {
		off  int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{255, []byte{0xFF}},
		{256, []byte{0x00}}, // low 8 bits of the chunk offset
		{2047, []byte{0xFF}},
	}
	for _, tc := range cases {
		if got := Addr8.WordAddress(tc.off); !bytes.Equal(got, tc.want) {
			t.Errorf("WordAddress(%d) = % X, want % X", tc.off, got, tc.want)
		}
	}
}

func TestWordAddressWide(t *testing.T) {
	cases := []struct {
		off  int
		want []byte
	}{
		{0, []byte{0x00, 0x00}},
		{255, []byte{0x00, 0xFF}},
		{2048, []byte{0x08, 0x00}},
		{4090, []byte{0x0F, 0xFA}},
		{65535, []byte{0xFF, 0xFF}},
	}
	for _, tc := range cases {
		if got := Addr16.WordAddress(tc.off); !bytes.Equal(got, tc.want) {
			t.Errorf("WordAddress(%d) = % X, want % X", tc.off, got, tc.want)
		}
	}
}

func TestWidthFromCapacity(t *testing.T) {
	cases := []struct {
		total int
		want  Width
	}{
		{128, Addr8},
		{256, Addr8},
		{2048, Addr8},
		{2049, Addr16},
		{4096, Addr16},
		{131072, Addr16},
	}
	for _, tc := range cases {
		p := NewProfile("x", tc.total, 8)
		if p.Width != tc.want {
			t.Errorf("NewProfile(%d).Width = %s, want %s", tc.total, p.Width, tc.want)
		}
	}
}

func TestProfileWordAddressDelegates(t *testing.T) {
	p := mustProfile(t, "24C32")
	if got := p.WordAddress(4090); !bytes.Equal(got, []byte{0x0F, 0xFA}) {
		t.Errorf("24C32 WordAddress(4090) = % X", got)
	}
	n := mustProfile(t, "24C02")
	if got := n.WordAddress(37); !bytes.Equal(got, []byte{37}) {
		t.Errorf("24C02 WordAddress(37) = % X", got)
	}
}
