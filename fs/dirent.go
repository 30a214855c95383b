package fs

import (
	"bytes"
	"encoding/binary"

	fserrors "github.com/aaron-ang/file-system/errors"
)

// dirEntry is a single flat-namespace directory entry. The name is stored in
// an inline fixed-size buffer so the entry survives mount/unmount on its own,
// independent of any caller-owned string memory (see SPEC_FULL.md /
// spec.md §9).
type dirEntry struct {
	IsUsed      bool
	InodeNumber uint16
	NameLen     uint8
	Name        [MaxFileNameChars]byte
}

func (e *dirEntry) name() string {
	return string(e.Name[:e.NameLen])
}

func (e *dirEntry) setName(name string) {
	e.NameLen = uint8(len(name))
	var buf [MaxFileNameChars]byte
	copy(buf[:], name)
	e.Name = buf
}

// directoryTable is the in-memory mirror of block 1: a flat array of
// MaxFiles directory entries.
type directoryTable struct {
	entries [MaxFiles]dirEntry
}

// lookup performs a linear scan for a used entry with the given name.
// It returns the entry's index, or -1 if no such entry exists.
func (t *directoryTable) lookup(name string) int {
	for i := range t.entries {
		if t.entries[i].IsUsed && t.entries[i].name() == name {
			return i
		}
	}
	return -1
}

// claim finds the first unused slot and turns it into an entry for
// (inodeNumber, name). It returns the new entry's index, or -1 if the
// directory table is full.
func (t *directoryTable) claim(inodeNumber uint16, name string) int {
	for i := range t.entries {
		if !t.entries[i].IsUsed {
			t.entries[i] = dirEntry{IsUsed: true, InodeNumber: inodeNumber}
			t.entries[i].setName(name)
			return i
		}
	}
	return -1
}

// clear marks the entry at idx unused and zeroes its inode number and name.
func (t *directoryTable) clear(idx int) {
	t.entries[idx] = dirEntry{}
}

// rawDirEntry is the fixed on-disk layout of one directory entry: 1 byte
// used flag, 1 byte name length, 2 bytes inode number, 16 bytes of name.
type rawDirEntry struct {
	Used        uint8
	NameLen     uint8
	InodeNumber uint16
	Name        [MaxFileNameChars]byte
}

const dirEntrySize = 1 + 1 + 2 + MaxFileNameChars

func (t *directoryTable) marshal() []byte {
	buf := make([]byte, BlockSize)
	w := bytes.NewBuffer(buf[:0])
	for i := range t.entries {
		e := t.entries[i]
		raw := rawDirEntry{NameLen: e.NameLen, InodeNumber: e.InodeNumber, Name: e.Name}
		if e.IsUsed {
			raw.Used = 1
		}
		binary.Write(w, binary.LittleEndian, &raw)
	}
	return buf
}

func (t *directoryTable) unmarshal(block []byte) error {
	r := bytes.NewReader(block)
	for i := range t.entries {
		var raw rawDirEntry
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return fserrors.ErrFileSystemCorrupted.WrapError(err)
		}
		t.entries[i] = dirEntry{
			IsUsed:      raw.Used != 0,
			InodeNumber: raw.InodeNumber,
			NameLen:     raw.NameLen,
			Name:        raw.Name,
		}
	}
	return nil
}
