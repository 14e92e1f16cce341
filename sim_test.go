package seep

import (
	"bytes"
	"testing"
)

func TestSimPointerWrapsOnRead(t *testing.T) {
	bus := NewSimBus()
	chip := bus.AddChip(0x50, mustProfile(t, "24C02"))
	chip.Set(254, []byte{0xAA, 0xBB})
	chip.Set(0, []byte{0xCC, 0xDD})

	if err := bus.WriteBlock(0x50, []byte{254}, nil); err != nil {
		t.Fatalf("point failed: %v", err)
	}
	buf := make([]byte, 4)
	if err := bus.ReadBlock(0x50, buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	if !bytes.Equal(buf, want) {
		t.Errorf("got % X, want % X", buf, want)
	}
}

func TestSimPageWrapOnWrite(t *testing.T) {
	bus := NewSimBus()
	chip := bus.AddChip(0x50, mustProfile(t, "24C02"))

	// six bytes starting at offset 5 wrap inside the 8-byte page: 5,6,7,0,1,2
	if err := bus.WriteBlock(0x50, []byte{5}, []byte{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	mem := chip.Bytes()
	want := []byte{4, 5, 6, 0xFF, 0xFF, 1, 2, 3}
	if !bytes.Equal(mem[:8], want) {
		t.Errorf("page 0 = % X, want % X", mem[:8], want)
	}
	if mem[8] != 0xFF {
		t.Errorf("write leaked past the page: mem[8] = %#02x", mem[8])
	}
}

func TestSimPointerBounds(t *testing.T) {
	bus := NewSimBus()
	bus.AddChip(0x50, mustProfile(t, "24C02"))

	if err := bus.WriteBlock(0x50, []byte{0xFF}, nil); err != nil {
		t.Errorf("offset 255 should ack: %v", err)
	}
	if err := bus.WriteBlock(0x50, []byte{0x01, 0x00}, nil); err == nil {
		t.Error("offset 256 should not ack on a 256 byte part")
	}
}

func TestSimPrefixTooLong(t *testing.T) {
	bus := NewSimBus()
	bus.AddChip(0x50, mustProfile(t, "24C02"))

	if err := bus.WriteBlock(0x50, []byte{0, 0, 0}, nil); err == nil {
		t.Error("three prefix bytes should be rejected")
	}
}

func TestSimNoChip(t *testing.T) {
	bus := NewSimBus()

	if bus.Probe(0x50) {
		t.Error("probe acked on an empty bus")
	}
	if err := bus.WriteBlock(0x50, []byte{0}, nil); err == nil {
		t.Error("write acked on an empty bus")
	}
	if err := bus.ReadBlock(0x50, make([]byte, 1)); err == nil {
		t.Error("read acked on an empty bus")
	}
}

func TestSimClosedBus(t *testing.T) {
	bus := NewSimBus()
	bus.AddChip(0x50, mustProfile(t, "24C01"))

	if _, err := bus.Open(DefaultClock); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if bus.Probe(0x50) {
		t.Error("probe acked on a closed bus")
	}
	if err := bus.ReadBlock(0x50, make([]byte, 1)); err == nil {
		t.Error("read succeeded on a closed bus")
	}

	if _, err := bus.Open(DefaultClock); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !bus.Probe(0x50) {
		t.Error("probe failed after reopen")
	}
}

func TestSimEmptyPayloadIsNotAWrite(t *testing.T) {
	bus := NewSimBus()
	chip := bus.AddChip(0x50, mustProfile(t, "24C01"))
	before := chip.Bytes()

	for i := 0; i < 3; i++ {
		if err := bus.WriteBlock(0x50, []byte{8}, nil); err != nil {
			t.Fatalf("point failed: %v", err)
		}
	}
	if n := bus.WritesAt(8); n != 0 {
		t.Errorf("pointer writes counted as data writes: %d", n)
	}
	if !bytes.Equal(before, chip.Bytes()) {
		t.Error("pointer writes mutated memory")
	}
}

func TestSimFaultBudgets(t *testing.T) {
	bus := NewSimBus()
	bus.AddChip(0x50, mustProfile(t, "24C01"))

	bus.FailProbes(0x50, 1)
	if bus.Probe(0x50) {
		t.Error("first probe should fail")
	}
	if !bus.Probe(0x50) {
		t.Error("second probe should ack")
	}

	bus.FailReads(0, 1)
	buf := make([]byte, 1)
	if err := bus.WriteBlock(0x50, []byte{0}, nil); err != nil {
		t.Fatalf("point failed: %v", err)
	}
	if err := bus.ReadBlock(0x50, buf); err == nil {
		t.Error("first read should fail")
	}
	if err := bus.ReadBlock(0x50, buf); err != nil {
		t.Errorf("second read should succeed: %v", err)
	}

	bus.FailWrites(0, 1)
	if err := bus.WriteBlock(0x50, []byte{0}, []byte{1}); err == nil {
		t.Error("first data write should fail")
	}
	if err := bus.WriteBlock(0x50, []byte{0}, []byte{1}); err != nil {
		t.Errorf("second data write should succeed: %v", err)
	}
}
