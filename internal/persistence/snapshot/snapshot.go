package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"forest-rails/internal/sims/forest"
)

const Version = 1

var ErrVersion = errors.New("unsupported snapshot version")

// Header is written as the first line so a snapshot can be identified
// without decoding the world.
type Header struct {
	Version int       `json:"version"`
	Seed    int64     `json:"seed"`
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	SavedAt time.Time `json:"saved_at"`
}

// Write stores snap at path.
func Write(path string, snap forest.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return errors.Join(encode(f, snap), f.Close())
}

// encode writes the header line and the world as one zstd frame. Errors from
// the final frame flush are returned.
func encode(w io.Writer, snap forest.Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, _ := json.Marshal(Header{
		Version: Version,
		Seed:    snap.Seed,
		Rows:    snap.Rows,
		Cols:    snap.Cols,
		SavedAt: time.Now().UTC(),
	})
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Read loads a snapshot written by Write.
func Read(path string) (Header, forest.Snapshot, error) {
	var (
		hdr  Header
		snap forest.Snapshot
	)
	f, err := os.Open(path)
	if err != nil {
		return hdr, snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return hdr, snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return hdr, snap, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &hdr); err != nil {
		return hdr, snap, fmt.Errorf("decode header: %w", err)
	}
	if hdr.Version != Version {
		return hdr, snap, fmt.Errorf("version %d: %w", hdr.Version, ErrVersion)
	}
	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return hdr, snap, fmt.Errorf("json decode: %w", err)
	}
	return hdr, snap, nil
}
