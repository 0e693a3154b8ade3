package codec

import (
	"bytes"
	"fmt"

	msgpack "github.com/hashicorp/go-msgpack/v2/codec"
	"golang.org/x/crypto/blake2b"

	"repomanage/internal/domain"
)

// ============================================================================
// Bounded Entity Codec
// ============================================================================
//
// Frame layout:
//
//	[0]     format version
//	[1]     entity tag
//	[2:10]  BLAKE2b-64 digest of the body
//	[10:]   MessagePack body
//
// The frame layout is part of the persisted format. Changing it, the body
// encoding, or an entity tag makes existing regions undecodable.

const (
	// FormatVersion is written as the first byte of every frame
	FormatVersion byte = 1

	// MaxEntitySize bounds every encoded entity, header included
	MaxEntitySize = 1024

	digestSize = 8
	headerSize = 2 + digestSize
)

// Entity tags
const (
	TagRepo     byte = 'R'
	TagLanguage byte = 'L'
)

// Codec converts one entity type to and from a bounded byte form.
//
// Encode panics with *OverflowError when the encoding exceeds MaxSize.
// Decode panics with *CorruptionError when data was not produced by a
// matching Encode. Both are storage invariant violations, not user errors.
type Codec[T any] interface {
	Encode(v T) []byte
	Decode(data []byte) T
	MaxSize() int
	Name() string
}

// OverflowError is the panic value for an encoding over the size bound
type OverflowError struct {
	Codec string
	Size  int
	Max   int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("codec %s: encoded size %d exceeds bound %d", e.Codec, e.Size, e.Max)
}

// CorruptionError is the panic value for bytes that do not decode
type CorruptionError struct {
	Codec  string
	Reason string
	cause  error
}

func (e *CorruptionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("codec %s: corrupt frame: %s: %v", e.Codec, e.Reason, e.cause)
	}
	return fmt.Sprintf("codec %s: corrupt frame: %s", e.Codec, e.Reason)
}

func (e *CorruptionError) Unwrap() error { return e.cause }

// Bounded is a MessagePack Codec with a checksummed, tagged frame
type Bounded[T any] struct {
	name    string
	tag     byte
	maxSize int
	handle  *msgpack.MsgpackHandle
}

// NewBounded creates a codec for T framed with tag and bounded to maxSize
func NewBounded[T any](name string, tag byte, maxSize int) *Bounded[T] {
	h := &msgpack.MsgpackHandle{}
	h.WriteExt = true
	return &Bounded[T]{name: name, tag: tag, maxSize: maxSize, handle: h}
}

// Repos returns the codec for repositories
func Repos() *Bounded[domain.Repo] {
	return NewBounded[domain.Repo](domain.EntityRepo, TagRepo, MaxEntitySize)
}

// Languages returns the codec for programming languages
func Languages() *Bounded[domain.ProgrammingLanguage] {
	return NewBounded[domain.ProgrammingLanguage](domain.EntityLanguage, TagLanguage, MaxEntitySize)
}

// Name returns the entity name the codec is bound to
func (c *Bounded[T]) Name() string {
	return c.name
}

// MaxSize returns the size bound including the frame header
func (c *Bounded[T]) MaxSize() int {
	return c.maxSize
}

// Encode frames v. It panics if v cannot be encoded within MaxSize.
func (c *Bounded[T]) Encode(v T) []byte {
	var body []byte
	if err := msgpack.NewEncoderBytes(&body, c.handle).Encode(v); err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.name, err))
	}

	size := headerSize + len(body)
	if size > c.maxSize {
		panic(&OverflowError{Codec: c.name, Size: size, Max: c.maxSize})
	}

	frame := make([]byte, headerSize, size)
	frame[0] = FormatVersion
	frame[1] = c.tag
	copy(frame[2:headerSize], digest(body))
	return append(frame, body...)
}

// Decode reverses Encode. It panics with *CorruptionError on any mismatch.
func (c *Bounded[T]) Decode(data []byte) T {
	var v T

	switch {
	case len(data) < headerSize:
		c.corrupt("short frame", nil)
	case len(data) > c.maxSize:
		c.corrupt(fmt.Sprintf("frame of %d bytes exceeds bound %d", len(data), c.maxSize), nil)
	case data[0] != FormatVersion:
		c.corrupt(fmt.Sprintf("unknown format version %d", data[0]), nil)
	case data[1] != c.tag:
		c.corrupt(fmt.Sprintf("entity tag %q, want %q", data[1], c.tag), nil)
	}

	body := data[headerSize:]
	if !bytes.Equal(data[2:headerSize], digest(body)) {
		c.corrupt("checksum mismatch", nil)
	}

	if err := msgpack.NewDecoderBytes(body, c.handle).Decode(&v); err != nil {
		c.corrupt("malformed body", err)
	}
	return v
}

func (c *Bounded[T]) corrupt(reason string, cause error) {
	panic(&CorruptionError{Codec: c.name, Reason: reason, cause: cause})
}

func digest(body []byte) []byte {
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		// Only reachable with an invalid size constant
		panic(err)
	}
	h.Write(body)
	return h.Sum(nil)
}
