// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"
)

// Common codec errors
var (
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrMaxSliceLenExceeded = errors.New("max slice length exceeded")
	ErrMaxSizeExceeded     = errors.New("max document size exceeded")
	ErrUnexportedField     = errors.New("unexported field")
	ErrMarshalNil          = errors.New("can't marshal nil pointer")
	ErrUnmarshalZeroLength = errors.New("can't unmarshal zero length value")
	ErrCantUnpackVersion   = errors.New("couldn't unpack codec version")
	ErrUnknownVersion      = errors.New("unknown codec version")
	ErrDuplicateCodec      = errors.New("duplicate codec registration")
	ErrUnexpectedElement   = errors.New("unexpected element")
)

// Registry errors
var (
	ErrNotXMLable       = errors.New("type is not XMLable")
	ErrDuplicateType    = errors.New("duplicate type registration")
	ErrDuplicateElement = errors.New("duplicate element name")
	ErrDuplicateField   = errors.New("duplicate field name")
	ErrInvalidTag       = errors.New("invalid struct tag")
	ErrReservedName     = errors.New("reserved element name")
)

//go:generate go run go.uber.org/mock/mockgen -package=codecmock -destination=codecmock/codec.go -mock_names=Codec=Codec . Codec

// Codec marshals one value into one element and back
type Codec interface {
	MarshalInto(interface{}, *Writer) error
	// UnmarshalFrom decodes the element opened by start, through its end tag.
	UnmarshalFrom(r *Reader, start xml.StartElement) (interface{}, error)
}

// Manager manages multiple codec versions
type Manager interface {
	RegisterCodec(version uint16, codec Codec) error
	Marshal(version uint16, values ...interface{}) ([]byte, error)
	Unmarshal(bytes []byte) (uint16, []interface{}, error)
}

// DefaultMaxSize is the default maximum document size for codec manager (1MB)
const DefaultMaxSize = 1024 * 1024

// NewManager returns a new codec manager
func NewManager(maxSize uint64) Manager {
	size, err := safecast.Conv[int](maxSize)
	if err != nil {
		size = math.MaxInt
	}
	return &manager{
		maxSize: size,
		codecs:  make(map[uint16]Codec),
	}
}

// NewDefaultManager returns a codec manager with default max size
func NewDefaultManager() Manager {
	return NewManager(DefaultMaxSize)
}

type manager struct {
	maxSize int
	codecs  map[uint16]Codec
}

func (m *manager) RegisterCodec(version uint16, codec Codec) error {
	if _, exists := m.codecs[version]; exists {
		return fmt.Errorf("%w: version %d", ErrDuplicateCodec, version)
	}
	m.codecs[version] = codec
	return nil
}

func (m *manager) Marshal(version uint16, values ...interface{}) ([]byte, error) {
	codec, exists := m.codecs[version]
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	w := NewWriter(m.maxSize)
	w.Header()
	w.Start(RootElement, Attr(VersionAttr, strconv.FormatUint(uint64(version), 10)))
	for _, v := range values {
		if err := codec.MarshalInto(v, w); err != nil {
			return nil, err
		}
	}
	w.End(RootElement)

	b := w.Bytes()
	if w.Err != nil {
		return nil, w.Err
	}
	return b, nil
}

func (m *manager) Unmarshal(bytes []byte) (uint16, []interface{}, error) {
	if len(bytes) == 0 {
		return 0, nil, ErrUnmarshalZeroLength
	}
	if len(bytes) > m.maxSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrMaxSizeExceeded, len(bytes))
	}

	r := NewReader(bytes)
	root, ok := r.Next().(xml.StartElement)
	if !ok {
		if r.Err != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrCantUnpackVersion, r.Err)
		}
		return 0, nil, ErrCantUnpackVersion
	}
	if root.Name.Local != RootElement {
		return 0, nil, fmt.Errorf("%w: root <%s>", ErrUnexpectedElement, root.Name.Local)
	}
	raw, ok := AttrValue(root, VersionAttr)
	if !ok {
		return 0, nil, ErrCantUnpackVersion
	}
	parsed, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %q", ErrCantUnpackVersion, raw)
	}
	version := uint16(parsed)

	codec, exists := m.codecs[version]
	if !exists {
		return version, nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	var values []interface{}
	for {
		switch tok := r.Next().(type) {
		case xml.StartElement:
			v, err := codec.UnmarshalFrom(r, tok)
			if err != nil {
				return version, nil, err
			}
			values = append(values, v)
		case xml.EndElement:
			if tok := r.Next(); tok != nil {
				return version, nil, fmt.Errorf("%w: content after </%s>", ErrUnexpectedElement, RootElement)
			}
			if r.Err != nil {
				return version, nil, r.Err
			}
			return version, values, nil
		default:
			if r.Err != nil {
				return version, nil, r.Err
			}
			return version, nil, fmt.Errorf("%w: unterminated <%s>", ErrUnexpectedElement, RootElement)
		}
	}
}
