// Package ihex encodes and decodes memory images in the Intel HEX text
// format: colon-prefixed records of hex bytes with a 16-bit load address,
// a record type and a two's-complement checksum. Data (00), end-of-file
// (01) and extended linear address (04) records are supported, so images
// larger than 64 Kbytes round-trip; start-address records (03, 05) are
// accepted and ignored.
package ihex

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// recordBytes is the payload length of emitted data records.
const recordBytes = 16

// maxImageBytes bounds the decoded image so a stray extended address
// record cannot balloon the allocation.
const maxImageBytes = 1 << 20

const (
	typeData      = 0x00
	typeEOF       = 0x01
	typeExtLinear = 0x04
	typeStartSeg  = 0x03
	typeStartLin  = 0x05
)

// Encode writes image as Intel HEX records: 16-byte data records from
// address zero, an extended linear address record at each 64 Kbyte
// crossing, and a terminating end-of-file record.
func Encode(w io.Writer, image []byte) error {
	upper := 0
	for off := 0; off < len(image); off += recordBytes {
		if u := off >> 16; u != upper {
			if err := writeRecord(w, 0, typeExtLinear, []byte{byte(u >> 8), byte(u)}); err != nil {
				return err
			}
			upper = u
		}
		n := min(recordBytes, len(image)-off)
		if err := writeRecord(w, uint16(off), typeData, image[off:off+n]); err != nil {
			return err
		}
	}
	return writeRecord(w, 0, typeEOF, nil)
}

func writeRecord(w io.Writer, addr uint16, typ byte, data []byte) error {
	rec := make([]byte, 0, 5+len(data))
	rec = append(rec, byte(len(data)), byte(addr>>8), byte(addr), typ)
	rec = append(rec, data...)
	var sum byte
	for _, b := range rec {
		sum += b
	}
	rec = append(rec, -sum)
	_, err := fmt.Fprintf(w, ":%X\n", rec)
	return err
}

// Decode reads Intel HEX records until the end-of-file record and returns
// the assembled image. Gaps between records are filled with 0xFF, the
// erased state of the parts this image is written to.
func Decode(r io.Reader) ([]byte, error) {
	sc := bufio.NewScanner(r)
	image := []byte{}
	upper := 0
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if text[0] != ':' {
			return nil, fmt.Errorf("line %d: record does not start with ':'", line)
		}
		rec, err := hex.DecodeString(text[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: record too short", line)
		}
		count := int(rec[0])
		if len(rec) != 5+count {
			return nil, fmt.Errorf("line %d: length field %d does not match record", line, count)
		}
		var sum byte
		for _, b := range rec {
			sum += b
		}
		if sum != 0 {
			return nil, fmt.Errorf("line %d: bad checksum", line)
		}

		addr := int(rec[1])<<8 | int(rec[2])
		data := rec[4 : 4+count]
		switch rec[3] {
		case typeData:
			off := upper<<16 + addr
			end := off + count
			if end > maxImageBytes {
				return nil, fmt.Errorf("line %d: address 0x%X exceeds %d byte limit", line, end, maxImageBytes)
			}
			if end > len(image) {
				image = append(image, bytes.Repeat([]byte{0xFF}, end-len(image))...)
			}
			copy(image[off:end], data)
		case typeEOF:
			return image, nil
		case typeExtLinear:
			if count != 2 {
				return nil, fmt.Errorf("line %d: extended address record needs 2 data bytes, got %d", line, count)
			}
			upper = int(data[0])<<8 | int(data[1])
		case typeStartSeg, typeStartLin:
			// start addresses are meaningless for a memory image
		default:
			return nil, fmt.Errorf("line %d: unsupported record type 0x%02X", line, rec[3])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("missing end-of-file record")
}
