// Package dictionary loads the on-disk lookup structures the detection
// layer consults: bloom filters for large name dictionaries and plain term
// sets for smaller lists such as city names. Everything here is loaded
// once and immutable afterwards, so a loaded filter or set is safe to
// share across concurrent detector fan-outs without locking.
package dictionary

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
)

// ErrInvalidBloomFilter is returned for any file that fails the VBLM
// format checks: wrong magic, unsupported version, truncated sections, or
// malformed JSON.
var ErrInvalidBloomFilter = errors.New("INVALID_BLOOM_FILTER")

// bloomMagic and bloomVersion identify the on-disk filter format: magic
// "VBLM" (4 bytes), version byte 0x01, little-endian u32 metadata length,
// metadata JSON, little-endian u32 payload length, payload JSON.
var bloomMagic = [4]byte{'V', 'B', 'L', 'M'}

const bloomVersion = 0x01

// BloomMetadata is the metadata JSON section of a filter file.
type BloomMetadata struct {
	Version   string  `json:"version"`
	Size      int     `json:"size"`
	NbHashes  int     `json:"nbHashes"`
	ItemCount int     `json:"itemCount"`
	FPRate    float64 `json:"fpRate"`
	CreatedAt string  `json:"createdAt"`
}

// bloomPayload is the filter-payload JSON section: the bit array, base64
// encoded.
type bloomPayload struct {
	Bits string `json:"bits"`
}

// BloomFilter is an immutable membership filter once loaded; Add is only
// valid on filters built in-process via New, before any concurrent use.
type BloomFilter struct {
	meta BloomMetadata
	bits []byte // meta.Size bits, little-endian within each byte
}

// New returns an empty filter with the given bit size and hash count,
// for building filter files in-process (tooling, tests).
func New(size, nbHashes int) *BloomFilter {
	return &BloomFilter{
		meta: BloomMetadata{Version: "1", Size: size, NbHashes: nbHashes},
		bits: make([]byte, (size+7)/8),
	}
}

// Metadata returns the filter's metadata section.
func (f *BloomFilter) Metadata() BloomMetadata { return f.meta }

// Add inserts value. Only valid before the filter is shared.
func (f *BloomFilter) Add(value string) {
	h1, h2 := hashPair(value)
	for i := 0; i < f.meta.NbHashes; i++ {
		idx := (h1 + uint64(i)*h2) % uint64(f.meta.Size)
		f.bits[idx/8] |= 1 << (idx % 8)
	}
	f.meta.ItemCount++
}

// Contains reports whether value may be in the set. False positives occur
// at roughly the metadata's fpRate; false negatives never.
func (f *BloomFilter) Contains(value string) bool {
	if f == nil || f.meta.Size == 0 {
		return false
	}
	h1, h2 := hashPair(value)
	for i := 0; i < f.meta.NbHashes; i++ {
		idx := (h1 + uint64(i)*h2) % uint64(f.meta.Size)
		if f.bits[idx/8]&(1<<(idx%8)) == 0 {
			return false
		}
	}
	return true
}

// hashPair derives the two base hashes for double hashing from one FNV-64a
// pass: low and high halves, with the high half forced odd so it is
// coprime with power-of-two sizes.
func hashPair(value string) (uint64, uint64) {
	h := fnv.New64a()
	_, _ = io.WriteString(h, strings.ToLower(value))
	sum := h.Sum64()
	h1 := sum & 0xffffffff
	h2 := (sum >> 32) | 1
	return h1, h2
}

// Encode writes the filter in the VBLM file format.
func (f *BloomFilter) Encode(w io.Writer) error {
	metaJSON, err := json.Marshal(f.meta)
	if err != nil {
		return err
	}
	payloadJSON, err := json.Marshal(bloomPayload{Bits: base64.StdEncoding.EncodeToString(f.bits)})
	if err != nil {
		return err
	}

	if _, err := w.Write(bloomMagic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{bloomVersion}); err != nil {
		return err
	}
	if err := writeSection(w, metaJSON); err != nil {
		return err
	}
	return writeSection(w, payloadJSON)
}

func writeSection(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// LoadBloomFilter reads and validates a VBLM filter file.
func LoadBloomFilter(path string) (*BloomFilter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bloom filter %s: %w", path, err)
	}
	defer f.Close()
	filter, err := ReadBloomFilter(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return filter, nil
}

// ReadBloomFilter parses the VBLM format from r, validating the magic and
// version bytes before trusting any length field.
func ReadBloomFilter(r io.Reader) (*BloomFilter, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrInvalidBloomFilter)
	}
	if [4]byte{header[0], header[1], header[2], header[3]} != bloomMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidBloomFilter)
	}
	if header[4] != bloomVersion {
		return nil, fmt.Errorf("%w: unsupported version 0x%02x", ErrInvalidBloomFilter, header[4])
	}

	metaJSON, err := readSection(r)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata section: %v", ErrInvalidBloomFilter, err)
	}
	var meta BloomMetadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, fmt.Errorf("%w: metadata JSON: %v", ErrInvalidBloomFilter, err)
	}
	if meta.Size <= 0 || meta.NbHashes <= 0 {
		return nil, fmt.Errorf("%w: metadata declares size=%d nbHashes=%d", ErrInvalidBloomFilter, meta.Size, meta.NbHashes)
	}

	payloadJSON, err := readSection(r)
	if err != nil {
		return nil, fmt.Errorf("%w: payload section: %v", ErrInvalidBloomFilter, err)
	}
	var payload bloomPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, fmt.Errorf("%w: payload JSON: %v", ErrInvalidBloomFilter, err)
	}
	bits, err := base64.StdEncoding.DecodeString(payload.Bits)
	if err != nil {
		return nil, fmt.Errorf("%w: payload bits: %v", ErrInvalidBloomFilter, err)
	}
	if len(bits) != (meta.Size+7)/8 {
		return nil, fmt.Errorf("%w: payload holds %d bytes, metadata size %d needs %d", ErrInvalidBloomFilter, len(bits), meta.Size, (meta.Size+7)/8)
	}

	return &BloomFilter{meta: meta, bits: bits}, nil
}

func readSection(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	const maxSection = 64 << 20
	if n > maxSection {
		return nil, fmt.Errorf("section of %d bytes exceeds limit", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
