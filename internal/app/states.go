// Package app provides save state functionality for the NES emulator.
package app

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"go8bit/internal/bus"
)

// StateManager manages save states
type StateManager struct {
	saveDirectory string
	maxSlots      int
	initialized   bool
}

// SaveState represents a saved emulator state
type SaveState struct {
	// Metadata
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	ROMChecksum string    `json:"rom_checksum"`
	SlotNumber  int       `json:"slot_number"`
	Description string    `json:"description"`

	// Emulator state
	CPUState    CPUStateData `json:"cpu_state"`
	PPUState    PPUStateData `json:"ppu_state"`
	APUState    APUStateData `json:"apu_state"`
	MemoryState MemoryData   `json:"memory_state"`

	// Frame information, captured at save time. Bus doesn't expose setters
	// for these counters, so LoadState restores them as informational only
	// (GetFrameCount/GetCycleCount on the running bus won't rewind).
	FrameCount uint64 `json:"frame_count"`
	CycleCount uint64 `json:"cycle_count"`

	// Screenshot (base64 encoded)
	Screenshot string `json:"screenshot,omitempty"`
}

// CPUStateData represents CPU state for save files
type CPUStateData struct {
	PC     uint16       `json:"pc"`
	A      uint8        `json:"a"`
	X      uint8        `json:"x"`
	Y      uint8        `json:"y"`
	SP     uint8        `json:"sp"`
	Cycles uint64       `json:"cycles"`
	Flags  CPUFlagsData `json:"flags"`
}

// CPUFlagsData represents CPU flags for save files
type CPUFlagsData struct {
	N bool `json:"n"`
	V bool `json:"v"`
	B bool `json:"b"`
	D bool `json:"d"`
	I bool `json:"i"`
	Z bool `json:"z"`
	C bool `json:"c"`
}

// PPUStateData represents PPU state for save files
type PPUStateData struct {
	Scanline    int    `json:"scanline"`
	Cycle       int    `json:"cycle"`
	FrameCount  uint64 `json:"frame_count"`
	VBlankFlag  bool   `json:"vblank_flag"`
	RenderingOn bool   `json:"rendering_on"`
	NMIEnabled  bool   `json:"nmi_enabled"`
}

// APUStateData represents APU state for save files. The APU's internal
// channel registers aren't exposed publicly, so a restored APU resumes
// from its post-Reset state rather than the exact sample it was on.
type APUStateData struct {
	Enabled    bool `json:"enabled"`
	SampleRate int  `json:"sample_rate"`
}

// MemoryData holds the raw bytes of every region a save state snapshots:
// 2KB of CPU-visible RAM, the PPU's nametable+palette address space, and
// primary OAM. Mapper-internal state (bank registers, CHR RAM banking) is
// not captured.
type MemoryData struct {
	RAMData  []uint8 `json:"ram_data"`
	VRAMData []uint8 `json:"vram_data"`
	OAMData  []uint8 `json:"oam_data"`
}

// StateSlotInfo contains information about a save state slot
type StateSlotInfo struct {
	SlotNumber  int       `json:"slot_number"`
	Used        bool      `json:"used"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
}

// Memory region sizes captured by a save state.
const (
	ramSize  = 0x0800 // 2KB CPU-visible RAM
	oamSize  = 256    // primary OAM
	vramBase = 0x2000 // nametables through palette RAM
	vramSize = 0x1F20 // covers $2000-$3F1F
)

// NewStateManager creates a new state manager
func NewStateManager(saveDirectory string) *StateManager {
	manager := &StateManager{
		saveDirectory: saveDirectory,
		maxSlots:      10, // Default to 10 save slots
		initialized:   false,
	}

	if err := manager.initialize(); err != nil {
		// Log error but continue
		fmt.Printf("Warning: State manager initialization failed: %v\n", err)
	}

	return manager
}

// initialize initializes the state manager
func (sm *StateManager) initialize() error {
	if err := os.MkdirAll(sm.saveDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %v", err)
	}

	sm.initialized = true
	return nil
}

// SaveState saves the current emulator state to a slot
func (sm *StateManager) SaveState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}

	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}

	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	saveState := sm.captureState(b, romPath, slot,
		fmt.Sprintf("Auto-save %s", time.Now().Format("2006-01-02 15:04:05")))

	filePath := sm.getSlotFilePath(slot, romPath)
	if err := sm.saveToFile(saveState, filePath); err != nil {
		return fmt.Errorf("failed to save state: %v", err)
	}

	return nil
}

// captureState builds a SaveState snapshot of b's current registers,
// flags, and memory.
func (sm *StateManager) captureState(b *bus.Bus, romPath string, slot int, description string) *SaveState {
	saveState := &SaveState{
		Version:     "1.0",
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		ROMChecksum: sm.calculateROMChecksum(romPath),
		SlotNumber:  slot,
		Description: description,
		FrameCount:  b.GetFrameCount(),
		CycleCount:  b.GetCycleCount(),
	}

	cpuState := b.GetCPUState()
	saveState.CPUState = CPUStateData{
		PC:     cpuState.PC,
		A:      cpuState.A,
		X:      cpuState.X,
		Y:      cpuState.Y,
		SP:     cpuState.SP,
		Cycles: cpuState.Cycles,
		Flags: CPUFlagsData{
			N: cpuState.Flags.N,
			V: cpuState.Flags.V,
			B: cpuState.Flags.B,
			D: cpuState.Flags.D,
			I: cpuState.Flags.I,
			Z: cpuState.Flags.Z,
			C: cpuState.Flags.C,
		},
	}

	ppuState := b.GetPPUState()
	saveState.PPUState = PPUStateData{
		Scanline:    ppuState.Scanline,
		Cycle:       ppuState.Cycle,
		FrameCount:  ppuState.FrameCount,
		VBlankFlag:  ppuState.VBlankFlag,
		RenderingOn: ppuState.RenderingOn,
		NMIEnabled:  ppuState.NMIEnabled,
	}

	saveState.APUState = APUStateData{
		Enabled:    true,
		SampleRate: 44100,
	}

	saveState.MemoryState = sm.captureMemory(b)

	return saveState
}

// captureMemory reads RAM, OAM, and the PPU's own address space directly
// off the bus.
func (sm *StateManager) captureMemory(b *bus.Bus) MemoryData {
	ram := make([]uint8, ramSize)
	for addr := 0; addr < ramSize; addr++ {
		ram[addr] = b.Memory.Read(uint16(addr))
	}

	oam := make([]uint8, oamSize)
	for addr := 0; addr < oamSize; addr++ {
		oam[addr] = b.PPU.ReadOAM(uint8(addr))
	}

	vram := make([]uint8, vramSize)
	for offset := 0; offset < vramSize; offset++ {
		vram[offset] = b.PPU.ReadVRAM(uint16(vramBase + offset))
	}

	return MemoryData{RAMData: ram, VRAMData: vram, OAMData: oam}
}

// LoadState loads a saved state from a slot
func (sm *StateManager) LoadState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}

	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}

	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	filePath := sm.getSlotFilePath(slot, romPath)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	saveState, err := sm.loadFromFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to load state: %v", err)
	}

	if err := sm.validateSaveState(saveState, romPath); err != nil {
		return fmt.Errorf("invalid save state: %v", err)
	}

	if err := sm.restoreState(b, saveState); err != nil {
		return fmt.Errorf("failed to restore state: %v", err)
	}

	return nil
}

// saveToFile saves a state to a file
func (sm *StateManager) saveToFile(state *SaveState, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %v", err)
	}

	return nil
}

// loadFromFile loads a state from a file
func (sm *StateManager) loadFromFile(filePath string) (*SaveState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}

	var state SaveState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %v", err)
	}

	return &state, nil
}

// validateSaveState validates a loaded save state
func (sm *StateManager) validateSaveState(state *SaveState, currentROMPath string) error {
	if state.Version == "" {
		return fmt.Errorf("missing version information")
	}

	if state.ROMPath != currentROMPath {
		return fmt.Errorf("save state is for a different ROM")
	}

	if state.ROMChecksum != sm.calculateROMChecksum(currentROMPath) {
		return fmt.Errorf("save state is for a different ROM (checksum mismatch)")
	}

	if len(state.MemoryState.RAMData) != ramSize {
		return fmt.Errorf("corrupt save state: RAM snapshot is %d bytes, want %d", len(state.MemoryState.RAMData), ramSize)
	}
	if len(state.MemoryState.OAMData) != oamSize {
		return fmt.Errorf("corrupt save state: OAM snapshot is %d bytes, want %d", len(state.MemoryState.OAMData), oamSize)
	}
	if len(state.MemoryState.VRAMData) != vramSize {
		return fmt.Errorf("corrupt save state: VRAM snapshot is %d bytes, want %d", len(state.MemoryState.VRAMData), vramSize)
	}

	return nil
}

// restoreState writes a save state's registers and memory back onto the
// bus. The bus is reset first so mapper and PPU latches start from a known
// state before memory contents are overwritten.
func (sm *StateManager) restoreState(b *bus.Bus, state *SaveState) error {
	b.Reset()

	cpu := state.CPUState
	b.CPU.PC = cpu.PC
	b.CPU.A = cpu.A
	b.CPU.X = cpu.X
	b.CPU.Y = cpu.Y
	b.CPU.SP = cpu.SP
	b.CPU.N = cpu.Flags.N
	b.CPU.V = cpu.Flags.V
	b.CPU.B = cpu.Flags.B
	b.CPU.D = cpu.Flags.D
	b.CPU.I = cpu.Flags.I
	b.CPU.Z = cpu.Flags.Z
	b.CPU.C = cpu.Flags.C

	mem := state.MemoryState
	for addr := 0; addr < len(mem.RAMData); addr++ {
		b.Memory.Write(uint16(addr), mem.RAMData[addr])
	}
	for addr := 0; addr < len(mem.OAMData); addr++ {
		b.PPU.WriteOAM(uint8(addr), mem.OAMData[addr])
	}
	for offset := 0; offset < len(mem.VRAMData); offset++ {
		b.PPU.WriteVRAM(uint16(vramBase+offset), mem.VRAMData[offset])
	}

	return nil
}

// getSlotFilePath generates the file path for a save slot
func (sm *StateManager) getSlotFilePath(slot int, romPath string) string {
	romName := filepath.Base(romPath)
	romNameWithoutExt := romName[:len(romName)-len(filepath.Ext(romName))]
	fileName := fmt.Sprintf("%s_slot_%d.save", romNameWithoutExt, slot)
	return filepath.Join(sm.saveDirectory, fileName)
}

// calculateROMChecksum hashes the ROM file's contents (not just its name)
// so loading a save state against a different ROM at the same path is
// still caught. Falls back to a name-based placeholder if the ROM can't
// be read (e.g. it was moved after the state was saved).
func (sm *StateManager) calculateROMChecksum(romPath string) string {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Sprintf("unreadable_%s", filepath.Base(romPath))
	}
	return fmt.Sprintf("crc32_%08x", crc32.ChecksumIEEE(data))
}

// GetSlotInfo returns information about all save slots
func (sm *StateManager) GetSlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)

	for i := 0; i < sm.maxSlots; i++ {
		slotInfo := StateSlotInfo{
			SlotNumber: i,
			Used:       false,
		}

		filePath := sm.getSlotFilePath(i, romPath)
		if stat, err := os.Stat(filePath); err == nil {
			slotInfo.Used = true
			slotInfo.FilePath = filePath
			slotInfo.FileSize = stat.Size()
			slotInfo.Timestamp = stat.ModTime()

			if state, err := sm.loadFromFile(filePath); err == nil {
				slotInfo.ROMPath = state.ROMPath
				slotInfo.Description = state.Description
				slotInfo.Timestamp = state.Timestamp
			}
		}

		slots[i] = slotInfo
	}

	return slots
}

// DeleteState deletes a save state from a slot
func (sm *StateManager) DeleteState(slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}

	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}

	filePath := sm.getSlotFilePath(slot, romPath)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete save state: %v", err)
	}

	return nil
}

// HasSaveState checks if a save state exists in a slot
func (sm *StateManager) HasSaveState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}

	filePath := sm.getSlotFilePath(slot, romPath)
	_, err := os.Stat(filePath)
	return err == nil
}

// GetMaxSlots returns the maximum number of save slots
func (sm *StateManager) GetMaxSlots() int {
	return sm.maxSlots
}

// SetMaxSlots sets the maximum number of save slots
func (sm *StateManager) SetMaxSlots(slots int) {
	if slots > 0 {
		sm.maxSlots = slots
	}
}

// GetSaveDirectory returns the save directory path
func (sm *StateManager) GetSaveDirectory() string {
	return sm.saveDirectory
}

// SetSaveDirectory sets the save directory path
func (sm *StateManager) SetSaveDirectory(directory string) error {
	sm.saveDirectory = directory
	return sm.initialize()
}

// ExportState exports a save state to a specific file
func (sm *StateManager) ExportState(b *bus.Bus, filePath string, romPath string) error {
	saveState := sm.captureState(b, romPath, -1,
		fmt.Sprintf("Export %s", time.Now().Format("2006-01-02 15:04:05")))
	return sm.saveToFile(saveState, filePath)
}

// ImportState imports a save state from a specific file
func (sm *StateManager) ImportState(b *bus.Bus, filePath string, romPath string) error {
	saveState, err := sm.loadFromFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to import state: %v", err)
	}

	if err := sm.validateSaveState(saveState, romPath); err != nil {
		return fmt.Errorf("invalid imported state: %v", err)
	}

	return sm.restoreState(b, saveState)
}

// Cleanup cleans up state manager resources
func (sm *StateManager) Cleanup() error {
	sm.initialized = false
	return nil
}

// GetStateManagerStats returns statistics about the state manager
func (sm *StateManager) GetStateManagerStats(romPath string) StateManagerStats {
	slots := sm.GetSlotInfo(romPath)

	var usedSlots int
	var totalSize int64
	for _, slot := range slots {
		if slot.Used {
			usedSlots++
			totalSize += slot.FileSize
		}
	}

	return StateManagerStats{
		MaxSlots:      sm.maxSlots,
		UsedSlots:     usedSlots,
		FreeSlots:     sm.maxSlots - usedSlots,
		TotalSize:     totalSize,
		SaveDirectory: sm.saveDirectory,
		Initialized:   sm.initialized,
	}
}

// StateManagerStats contains state manager statistics
type StateManagerStats struct {
	MaxSlots      int    `json:"max_slots"`
	UsedSlots     int    `json:"used_slots"`
	FreeSlots     int    `json:"free_slots"`
	TotalSize     int64  `json:"total_size"`
	SaveDirectory string `json:"save_directory"`
	Initialized   bool   `json:"initialized"`
}
