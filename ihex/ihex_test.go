package ihex

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeGolden(t *testing.T) {
	image := make([]byte, 16)
	for i := range image {
		image[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, image); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := ":10000000000102030405060708090A0B0C0D0E0F78\n:00000001FF\n"
	if buf.String() != want {
		t.Errorf("encoded:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if buf.String() != ":00000001FF\n" {
		t.Errorf("encoded %q", buf.String())
	}
}

func TestEncodePartialTailRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, make([]byte, 20)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d records, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], ":04001000") {
		t.Errorf("tail record = %s", lines[1])
	}
}

func TestRoundTripLarge(t *testing.T) {
	// a 128K image crosses the 64K boundary, forcing an extended linear
	// address record
	image := make([]byte, 131072)
	for i := range image {
		image[i] = byte(i>>8) ^ byte(i)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, image); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), ":020000040001F9\n") {
		t.Error("missing extended linear address record for the second 64K")
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, image) {
		t.Fatal("round trip diverged")
	}
}

func TestDecodeFillsGaps(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(&buf, 0, typeData, []byte{1, 2, 3, 4})
	writeRecord(&buf, 32, typeData, []byte{5, 6, 7, 8})
	writeRecord(&buf, 0, typeEOF, nil)

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(got) != 36 {
		t.Fatalf("len = %d, want 36", len(got))
	}
	for i := 4; i < 32; i++ {
		if got[i] != 0xFF {
			t.Fatalf("gap byte %d = %#02x, want 0xFF", i, got[i])
		}
	}
	if !bytes.Equal(got[32:], []byte{5, 6, 7, 8}) {
		t.Errorf("tail = % X", got[32:])
	}
}

func TestDecodeIgnoresStartRecords(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(&buf, 0, typeStartLin, []byte{0, 0, 1, 0})
	writeRecord(&buf, 0, typeData, []byte{0xAA})
	writeRecord(&buf, 0, typeStartSeg, []byte{0, 0, 0, 0})
	writeRecord(&buf, 0, typeEOF, nil)

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0xAA}) {
		t.Errorf("image = % X", got)
	}
}

func TestDecodeBlankLinesAndCRLF(t *testing.T) {
	text := "\n:0100000055AA\r\n\r\n:00000001FF\r\n"
	got, err := Decode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x55}) {
		t.Errorf("image = % X", got)
	}
}

func TestDecodeStopsAtEOFRecord(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(&buf, 0, typeData, []byte{1})
	writeRecord(&buf, 0, typeEOF, nil)
	buf.WriteString("garbage after the end\n")

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, []byte{1}) {
		t.Errorf("image = % X", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	overLimit := func() string {
		var buf bytes.Buffer
		writeRecord(&buf, 0, typeExtLinear, []byte{0x00, 0x10})
		writeRecord(&buf, 0, typeData, []byte{1})
		writeRecord(&buf, 0, typeEOF, nil)
		return buf.String()
	}()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"no colon", "00000001FF\n", "does not start with"},
		{"bad hex", ":00zz0001FF\n", "line 1"},
		{"too short", ":0000\n", "too short"},
		{"length mismatch", ":01000001FF\n", "length field"},
		{"bad checksum", ":00000001FE\n", "bad checksum"},
		{"segment record", ":020000021000EC\n", "unsupported record type"},
		{"short ext record", ":01000004FFFC\n", "2 data bytes"},
		{"missing eof", ":0100000055AA\n", "missing end-of-file"},
		{"empty input", "", "missing end-of-file"},
		{"over limit", overLimit, "exceeds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.text))
			if err == nil {
				t.Fatal("decode succeeded")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
