package memstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	magicNum        = "DDSMEM\x00\x00" // File format identifier
	snapshotVersion = 1                // Snapshot version
)

// --------------------------------------------------------------------------
// Save / Load
// --------------------------------------------------------------------------

// Save writes all values to w. The format is:
//
//	magic | version uint8 | count uint64 | count x (keyLen uint32 | key | valueLen uint32 | value)
//
// Values are encoded with the snapshot serializer.
//
// Thread-safety: Save may run concurrently with writes. Values written
// during Save may or may not be part of the snapshot.
func (s *Store) Save(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	// Encode all entries first, the count precedes them
	type encoded struct {
		key   string
		value []byte
	}
	var entries []encoded
	var encodeErr error
	s.data.Range(func(k string, e entry) bool {
		data, err := s.ser.Dumps(e.value)
		if err != nil {
			encodeErr = fmt.Errorf("encoding %s: %w", k, err)
			return false
		}
		b, ok := data.([]byte)
		if !ok {
			encodeErr = fmt.Errorf("encoding %s: snapshot serializer returned %T, expected []byte", k, data)
			return false
		}
		entries = append(entries, encoded{k, b})
		return true
	})
	if encodeErr != nil {
		return encodeErr
	}

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(snapshotVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	// Write entries
	for _, item := range entries {
		if err := writeChunk(bw, []byte(item.key)); err != nil {
			return err
		}
		if err := writeChunk(bw, item.value); err != nil {
			return err
		}
	}

	// Flush buffer to ensure all data is written
	return bw.Flush()
}

// Load replaces the content of the store with the snapshot read from r.
//
// Thread-safety: Load must not be called concurrently with other operations.
func (s *Store) Load(r io.Reader) error {
	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if int(version) != snapshotVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, snapshotVersion)
	}

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return err
	}

	data := xsync.NewMapOf[string, entry]()
	for i := uint64(0); i < count; i++ {
		rawKey, err := readChunk(br)
		if err != nil {
			return err
		}
		rawValue, err := readChunk(br)
		if err != nil {
			return err
		}
		value, err := s.ser.Loads(rawValue)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", rawKey, err)
		}
		k := key.New(string(rawKey))
		data.Store(k.String(), entry{key: k, value: value})
	}

	s.data = data
	return nil
}

// SaveFile writes a snapshot to path. The snapshot is written to a temporary
// file first and renamed into place, so an existing snapshot is never left
// half written.
func (s *Store) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := s.Save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func writeChunk(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readChunk(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
