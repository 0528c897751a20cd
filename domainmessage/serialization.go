package domainmessage

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/latticenet/latticed/util/daghash"
)

// maxPayloadLength bounds a single transaction payload so a corrupt length
// prefix can't trigger a huge allocation while deserializing.
const maxPayloadLength = 1 << 24 // 16 MB

func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := binary.Write(w, binary.LittleEndian, element)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := binary.Read(r, binary.LittleEndian, element)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func writeHash(w io.Writer, hash *daghash.Hash) error {
	_, err := w.Write(hash[:])
	return errors.WithStack(err)
}

func readHash(r io.Reader) (*daghash.Hash, error) {
	var hash daghash.Hash
	_, err := io.ReadFull(r, hash[:])
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &hash, nil
}

func writeVarBytes(w io.Writer, data []byte) error {
	err := writeElements(w, uint32(len(data)))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.WithStack(err)
}

func readVarBytes(r io.Reader) ([]byte, error) {
	var length uint32
	err := readElements(r, &length)
	if err != nil {
		return nil, err
	}
	if length > maxPayloadLength {
		return nil, errors.Errorf("payload length %d exceeds the maximum of %d",
			length, maxPayloadLength)
	}
	data := make([]byte, length)
	_, err = io.ReadFull(r, data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
