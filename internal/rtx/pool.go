package rtx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrPoolExhausted is returned by Request when every block is in use.
	ErrPoolExhausted = errors.New("memory pool exhausted")
	// ErrDoubleRelease is returned when a block is released twice.
	ErrDoubleRelease = errors.New("block already released")
	// ErrForeignBlock is returned when a block from another pool is released.
	ErrForeignBlock = errors.New("block does not belong to this pool")
)

// Block is a fixed-size memory block handed out by a Pool.
type Block struct {
	id    int
	buf   []byte
	owner *Pool
	inUse bool
}

// ID identifies the block within its pool.
func (b *Block) ID() int { return b.id }

// Bytes exposes the block's storage.
func (b *Block) Bytes() []byte { return b.buf }

// SetInt stores v in the first 8 bytes of the block.
func (b *Block) SetInt(v int) {
	binary.LittleEndian.PutUint64(b.buf, uint64(v))
}

// Int reads the value stored by SetInt.
func (b *Block) Int() int {
	return int(binary.LittleEndian.Uint64(b.buf))
}

// Pool is a fixed pool of equally sized memory blocks.
// Not safe for concurrent use; guard it with an interrupt-free block or a section.
type Pool struct {
	blocks []*Block
	free   []*Block
	// OnRelease, if set, is called after a block goes back to the pool.
	OnRelease func(*Block)
}

// MinBlockSize is the smallest block able to hold an int.
const MinBlockSize = 8

// NewPool creates a pool of n blocks of size bytes each.
func NewPool(n, size int) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pool needs at least one block, got %d", n)
	}
	if size < MinBlockSize {
		return nil, fmt.Errorf("block size %d is below the minimum of %d", size, MinBlockSize)
	}
	p := &Pool{
		blocks: make([]*Block, n),
		free:   make([]*Block, 0, n),
	}
	for i := range n {
		b := &Block{id: i, buf: make([]byte, size), owner: p}
		p.blocks[i] = b
	}
	// Hand out low IDs first.
	for i := n - 1; i >= 0; i-- {
		p.free = append(p.free, p.blocks[i])
	}
	return p, nil
}

// Request takes a block out of the pool.
func (p *Pool) Request() (*Block, error) {
	if len(p.free) == 0 {
		return nil, ErrPoolExhausted
	}
	b := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	b.inUse = true
	clear(b.buf)
	return b, nil
}

// MustRequest is Request for callers that sized the pool for their needs.
func (p *Pool) MustRequest() *Block {
	b, err := p.Request()
	if err != nil {
		panic(err)
	}
	return b
}

// Release returns a block to the pool.
func (p *Pool) Release(b *Block) error {
	if b == nil || b.owner != p {
		return ErrForeignBlock
	}
	if !b.inUse {
		return fmt.Errorf("%w: block %d", ErrDoubleRelease, b.id)
	}
	b.inUse = false
	p.free = append(p.free, b)
	if p.OnRelease != nil {
		p.OnRelease(b)
	}
	return nil
}

// MustRelease is Release that panics on misuse.
func (p *Pool) MustRelease(b *Block) {
	if err := p.Release(b); err != nil {
		panic(err)
	}
}

// Available is the number of free blocks.
func (p *Pool) Available() int { return len(p.free) }

// Size is the total number of blocks.
func (p *Pool) Size() int { return len(p.blocks) }
