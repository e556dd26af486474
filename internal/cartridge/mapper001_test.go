package cartridge

import "testing"

// newMMC1TestCart builds a cartridge with 4 16KB PRG banks and 2 CHR 4KB
// banks (8KB total) directly, bypassing the iNES loader, so tests can stamp
// each bank with an identifiable pattern.
func newMMC1TestCart(prgBanks, chrBanksOf4KB int) *Cartridge {
	cart := &Cartridge{
		prgROM:    make([]uint8, prgBanks*0x4000),
		chrROM:    make([]uint8, chrBanksOf4KB*0x1000),
		mapperID:  1,
		mirror:    MirrorHorizontal,
		hasCHRRAM: false,
	}
	for bank := 0; bank < prgBanks; bank++ {
		for i := 0; i < 0x4000; i++ {
			cart.prgROM[bank*0x4000+i] = uint8(bank)
		}
	}
	for bank := 0; bank < chrBanksOf4KB; bank++ {
		for i := 0; i < 0x1000; i++ {
			cart.chrROM[bank*0x1000+i] = uint8(bank)
		}
	}
	return cart
}

// writeMMC1 performs the 5-write serial-shift-register sequence MMC1 expects,
// LSB first, targeting the given address.
func writeMMC1(m *Mapper001, address uint16, value uint8) {
	for i := 0; i < 5; i++ {
		bit := (value >> uint(i)) & 0x01
		m.WritePRG(address, bit)
	}
}

func TestMapper001PowerOnDefaultsToPRGMode3(t *testing.T) {
	cart := newMMC1TestCart(4, 2)
	m := NewMapper001(cart)

	// PRG mode 3: 0x8000 switches (bank 0 initially), 0xC000 fixed to last bank.
	lastBank := uint8(len(cart.prgROM)/0x4000 - 1)
	if got := m.ReadPRG(0xC000); got != lastBank {
		t.Errorf("expected 0xC000 fixed to last bank (%d), got %d", lastBank, got)
	}
}

func TestMapper001ShiftRegisterResetOnBit7(t *testing.T) {
	cart := newMMC1TestCart(4, 2)
	m := NewMapper001(cart)

	m.WritePRG(0x8000, 0x01)
	m.WritePRG(0x8000, 0x01)
	if m.shiftCount != 2 {
		t.Fatalf("expected shiftCount 2 mid-sequence, got %d", m.shiftCount)
	}

	m.WritePRG(0x8000, 0x80) // bit 7 set: reset
	if m.shiftCount != 0 || m.shiftRegister != 0 {
		t.Errorf("expected shift register reset on bit-7 write")
	}
	if m.control&0x0C != 0x0C {
		t.Errorf("expected PRG mode forced to 3 after reset, control=0x%02X", m.control)
	}
}

func TestMapper001ControlRegisterSelectsMirroring(t *testing.T) {
	cart := newMMC1TestCart(2, 2)
	m := NewMapper001(cart)

	writeMMC1(m, 0x8000, 0x02) // mirroring=2 (vertical), rest default
	if cart.mirror != MirrorVertical {
		t.Errorf("expected vertical mirroring, got %v", cart.mirror)
	}

	writeMMC1(m, 0x8000, 0x03) // mirroring=3 (horizontal)
	if cart.mirror != MirrorHorizontal {
		t.Errorf("expected horizontal mirroring, got %v", cart.mirror)
	}

	writeMMC1(m, 0x8000, 0x00) // mirroring=0 (single-screen low)
	if cart.mirror != MirrorSingleScreen0 {
		t.Errorf("expected single-screen-0 mirroring, got %v", cart.mirror)
	}
}

func TestMapper001PRGBankSwitchMode3(t *testing.T) {
	cart := newMMC1TestCart(4, 2)
	m := NewMapper001(cart)

	// Select PRG mode 3 explicitly (bit pattern 0b01100 = 0x0C) and bank 2.
	writeMMC1(m, 0x8000, 0x0C)
	writeMMC1(m, 0xE000, 0x02) // PRG bank register -> bank 2

	if got := m.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected switchable 0x8000 bank = 2, got %d", got)
	}
	if got := m.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected fixed-last 0xC000 bank = 3, got %d", got)
	}
}

func TestMapper001PRGBankSwitchMode2(t *testing.T) {
	cart := newMMC1TestCart(4, 2)
	m := NewMapper001(cart)

	writeMMC1(m, 0x8000, 0x08) // PRG mode 2: fix first, switch 0xC000
	writeMMC1(m, 0xE000, 0x03) // PRG bank register -> bank 3

	if got := m.ReadPRG(0x8000); got != 0 {
		t.Errorf("expected fixed-first 0x8000 bank = 0, got %d", got)
	}
	if got := m.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected switchable 0xC000 bank = 3, got %d", got)
	}
}

func TestMapper001PRGBankSwitchMode32KB(t *testing.T) {
	cart := newMMC1TestCart(4, 2)
	m := NewMapper001(cart)

	writeMMC1(m, 0x8000, 0x00) // PRG mode 0: 32KB mode, bank pair
	writeMMC1(m, 0xE000, 0x02) // odd bit ignored, selects pair (2,3)

	if got := m.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected 32KB-mode 0x8000 bank = 2, got %d", got)
	}
	if got := m.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected 32KB-mode 0xC000 bank = 3, got %d", got)
	}
}

func TestMapper001CHRBankSwitch8KBMode(t *testing.T) {
	cart := newMMC1TestCart(2, 4) // 4x4KB = 16KB CHR, enough for 2 8KB banks
	m := NewMapper001(cart)

	writeMMC1(m, 0x8000, 0x00) // CHR mode 0 (8KB), PRG mode 0
	writeMMC1(m, 0xA000, 0x02) // CHR bank register (low) selects 8KB bank 1 (banks 2&3)

	if got := m.ReadCHR(0x0000); got != 2 {
		t.Errorf("expected CHR 8KB-mode bank start = 2, got %d", got)
	}
	if got := m.ReadCHR(0x1000); got != 3 {
		t.Errorf("expected CHR 8KB-mode second half bank = 3, got %d", got)
	}
}

func TestMapper001CHRBankSwitch4KBMode(t *testing.T) {
	cart := newMMC1TestCart(2, 4)
	m := NewMapper001(cart)

	writeMMC1(m, 0x8000, 0x10) // CHR mode 1: two independent 4KB banks
	writeMMC1(m, 0xA000, 0x01) // chrBank0 = 1
	writeMMC1(m, 0xC000, 0x03) // chrBank1 = 3

	if got := m.ReadCHR(0x0000); got != 1 {
		t.Errorf("expected low 4KB bank = 1, got %d", got)
	}
	if got := m.ReadCHR(0x1000); got != 3 {
		t.Errorf("expected high 4KB bank = 3, got %d", got)
	}
}

func TestMapper001PRGRAMReadWrite(t *testing.T) {
	cart := newMMC1TestCart(2, 2)
	m := NewMapper001(cart)

	m.WritePRG(0x6000, 0x42)
	if got := m.ReadPRG(0x6000); got != 0x42 {
		t.Errorf("expected PRG RAM readback 0x42, got 0x%02X", got)
	}
}

func TestMapper001SaveRAMRoundTrip(t *testing.T) {
	cart := newMMC1TestCart(2, 2)
	m := NewMapper001(cart)
	m.WritePRG(0x6000, 0x99)

	saved := m.SaveRAM()

	m2 := NewMapper001(cart)
	m2.LoadSaveRAM(saved)
	if got := m2.ReadPRG(0x6000); got != 0x99 {
		t.Errorf("expected restored PRG RAM byte 0x99, got 0x%02X", got)
	}
}

func TestCartridgeDispatchesMapperOne(t *testing.T) {
	cart := newMMC1TestCart(2, 2)
	cart.mapper = createMapper(1, cart)
	if _, ok := cart.mapper.(*Mapper001); !ok {
		t.Errorf("expected createMapper(1, ...) to return *Mapper001")
	}
}

func TestCartridgeSaveRAMDelegatesToMapper(t *testing.T) {
	cart := newMMC1TestCart(2, 2)
	cart.hasBattery = true
	cart.mapper = NewMapper001(cart)
	cart.mapper.WritePRG(0x6000, 0x77)

	saved := cart.SaveRAM()
	if len(saved) == 0 || saved[0] != 0x77 {
		t.Errorf("expected cartridge SaveRAM to delegate to mapper, got %v", saved)
	}
}
