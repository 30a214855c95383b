package fs

import (
	"bytes"
	"encoding/binary"

	fserrors "github.com/aaron-ang/file-system/errors"
)

// superblock is the fixed layout written to block 0: five 16-bit offsets
// naming the blocks that hold the rest of the metadata. It never changes
// after Make.
type superblock struct {
	DirTableOffset    uint16
	InodeBitmapOffset uint16
	BlockBitmapOffset uint16
	InodeTableOffset  uint16
	DataOffset        uint16
}

func newSuperblock() superblock {
	return superblock{
		DirTableOffset:    dirTableBlockNum,
		InodeBitmapOffset: inodeBitmapBlockNum,
		BlockBitmapOffset: blockBitmapBlockNum,
		InodeTableOffset:  inodeTableBlockNum,
		DataOffset:        dataBlockStart,
	}
}

func (sb *superblock) marshal() []byte {
	buf := make([]byte, BlockSize)
	w := bytes.NewBuffer(buf[:0])
	binary.Write(w, binary.LittleEndian, sb)
	return buf
}

func (sb *superblock) unmarshal(block []byte) error {
	r := bytes.NewReader(block)
	if err := binary.Read(r, binary.LittleEndian, sb); err != nil {
		return fserrors.ErrFileSystemCorrupted.WrapError(err)
	}
	return nil
}
