package savefile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// FileExt is the file name suffix of save files.
const FileExt = ".sav.zst"

// Write stores an envelope at path: a header line followed by the JSON
// body, zstd-compressed. A failed write leaves no file behind.
func Write(path string, env *Envelope) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := writeEnvelope(enc, env); err != nil {
		_ = enc.Close()
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func writeEnvelope(w io.Writer, env *Envelope) error {
	bw := bufio.NewWriter(w)
	hb, err := json.Marshal(env.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(env); err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	return bw.Flush()
}

// Read loads an envelope from path.
func Read(path string) (*Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	// The body repeats the header.
	if _, err := br.ReadBytes('\n'); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var env Envelope
	if err := json.NewDecoder(br).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if err := env.Header.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// ReadHeader loads only the header line of a save file.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, h.validate()
}
