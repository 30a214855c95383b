package fs

import (
	"bytes"
	"encoding/binary"

	fserrors "github.com/aaron-ang/file-system/errors"
)

// rawInode is the fixed on-disk (and in-memory) layout of one inode: 12
// direct block pointers, one single-indirect pointer, one double-indirect
// pointer, and the file's size in bytes. A pointer value of 0 means
// "unallocated"; block 0 is the superblock and can never be a data pointer.
type rawInode struct {
	Direct         [DirectPointersPerInode]uint16
	SingleIndirect uint16
	DoubleIndirect uint16
	FileSize       int32
}

// inodeTable is the in-memory mirror of block 4: MaxFiles fixed-size inode
// records.
type inodeTable struct {
	inodes [MaxFiles]rawInode
}

func (t *inodeTable) marshal() []byte {
	buf := make([]byte, BlockSize)
	w := bytes.NewBuffer(buf[:0])
	for i := range t.inodes {
		binary.Write(w, binary.LittleEndian, &t.inodes[i])
	}
	return buf
}

func (t *inodeTable) unmarshal(block []byte) error {
	r := bytes.NewReader(block)
	for i := range t.inodes {
		if err := binary.Read(r, binary.LittleEndian, &t.inodes[i]); err != nil {
			return fserrors.ErrFileSystemCorrupted.WrapError(err)
		}
	}
	return nil
}

// indirectBlock is a disk block interpreted as an array of PointersPerBlock
// 16-bit block pointers.
type indirectBlock [PointersPerBlock]uint16

func (b *indirectBlock) marshal() []byte {
	buf := make([]byte, BlockSize)
	w := bytes.NewBuffer(buf[:0])
	binary.Write(w, binary.LittleEndian, b)
	return buf
}

func (b *indirectBlock) unmarshal(block []byte) error {
	r := bytes.NewReader(block)
	return binary.Read(r, binary.LittleEndian, b)
}

// readIndirectBlock loads block n and interprets it as a pointer table.
func (v *Volume) readIndirectBlock(n uint16) (*indirectBlock, error) {
	buf := make([]byte, BlockSize)
	if err := v.device.ReadBlock(int(n), buf); err != nil {
		return nil, err
	}
	var ib indirectBlock
	if err := ib.unmarshal(buf); err != nil {
		return nil, err
	}
	return &ib, nil
}

func (v *Volume) writeIndirectBlock(n uint16, ib *indirectBlock) error {
	return v.device.WriteBlock(int(n), ib.marshal())
}

// dataBlockOf maps a byte offset within a file to the disk block number that
// stores it, per spec §4.5. It returns 0 if the logical block has not yet
// been allocated.
func (v *Volume) dataBlockOf(inodeIndex int, fileOffset int) (uint16, error) {
	inode := &v.inodes.inodes[inodeIndex]
	b := fileOffset / BlockSize

	if b < DirectPointersPerInode {
		return inode.Direct[b], nil
	}
	b -= DirectPointersPerInode

	if b < PointersPerBlock {
		if inode.SingleIndirect == 0 {
			return 0, nil
		}
		ib, err := v.readIndirectBlock(inode.SingleIndirect)
		if err != nil {
			return 0, err
		}
		return ib[b], nil
	}
	b -= PointersPerBlock

	if inode.DoubleIndirect == 0 {
		return 0, nil
	}
	top, err := v.readIndirectBlock(inode.DoubleIndirect)
	if err != nil {
		return 0, err
	}
	topIndex := b / PointersPerBlock
	subPointer := top[topIndex]
	if subPointer == 0 {
		return 0, nil
	}
	sub, err := v.readIndirectBlock(subPointer)
	if err != nil {
		return 0, err
	}
	return sub[b%PointersPerBlock], nil
}

// claimUnusedDataBlock scans the used-block bitmap starting at dataBlockStart
// for the first clear bit, marks it used, and returns its block number. It
// returns an error if the disk is full.
func (v *Volume) claimUnusedDataBlock() (uint16, error) {
	// Blocks 0..MetadataBlocks-1 are always marked used (invariant 7), so the
	// first clear bit is never one of them; scanning from 0 is equivalent to
	// scanning from dataBlockStart.
	idx := v.blockBitmap.FirstClear(DiskBlocks)
	if idx < 0 {
		return 0, fserrors.ErrNoSpaceOnDevice
	}
	v.blockBitmap.Set(idx, true)
	return uint16(idx), nil
}

// attachBlock appends blockNumber to inode's address list in dense order, per
// spec §4.5. It allocates single- and double-indirect tables as needed.
func (v *Volume) attachBlock(inodeIndex int, blockNumber uint16) error {
	inode := &v.inodes.inodes[inodeIndex]

	for i := range inode.Direct {
		if inode.Direct[i] == 0 {
			inode.Direct[i] = blockNumber
			return nil
		}
	}

	if inode.SingleIndirect == 0 {
		tableBlock, err := v.claimUnusedDataBlock()
		if err != nil {
			return err
		}
		var ib indirectBlock
		ib[0] = blockNumber
		if err := v.writeIndirectBlock(tableBlock, &ib); err != nil {
			return err
		}
		inode.SingleIndirect = tableBlock
		return nil
	}

	ib, err := v.readIndirectBlock(inode.SingleIndirect)
	if err != nil {
		return err
	}
	for i := range ib {
		if ib[i] == 0 {
			ib[i] = blockNumber
			return v.writeIndirectBlock(inode.SingleIndirect, ib)
		}
	}

	if inode.DoubleIndirect == 0 {
		topBlock, err := v.claimUnusedDataBlock()
		if err != nil {
			return err
		}
		subBlock, err := v.claimUnusedDataBlock()
		if err != nil {
			return err
		}
		var top, sub indirectBlock
		top[0] = subBlock
		sub[0] = blockNumber
		if err := v.writeIndirectBlock(subBlock, &sub); err != nil {
			return err
		}
		if err := v.writeIndirectBlock(topBlock, &top); err != nil {
			return err
		}
		inode.DoubleIndirect = topBlock
		return nil
	}

	top, err := v.readIndirectBlock(inode.DoubleIndirect)
	if err != nil {
		return err
	}
	for i := range top {
		if top[i] == 0 {
			subBlock, err := v.claimUnusedDataBlock()
			if err != nil {
				return err
			}
			var sub indirectBlock
			sub[0] = blockNumber
			if err := v.writeIndirectBlock(subBlock, &sub); err != nil {
				return err
			}
			top[i] = subBlock
			return v.writeIndirectBlock(inode.DoubleIndirect, top)
		}

		sub, err := v.readIndirectBlock(top[i])
		if err != nil {
			return err
		}
		for j := range sub {
			if sub[j] == 0 {
				sub[j] = blockNumber
				return v.writeIndirectBlock(top[i], sub)
			}
		}
	}

	return fserrors.ErrFileTooLarge
}
