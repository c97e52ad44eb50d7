package extras

import (
	"encoding/binary"
	"encoding/json"

	"github.com/pierrec/lz4/v4"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
)

// mozMagic is the 8-byte header Firefox expects on search.json.mozlz4.
const mozMagic = "mozLz40\x00"

// SearchEngine describes one entry of the generated search descriptor.
type SearchEngine struct {
	Name    string `json:"_name"`
	URL     string `json:"_urlTemplate"`
	Default bool   `json:"_isAppProvided,omitempty"`
}

// DefaultSearchEngines is the engine set staged for the browser
// bootstrap.
func DefaultSearchEngines() []SearchEngine {
	return []SearchEngine{
		{Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q={searchTerms}", Default: true},
		{Name: "Arch Wiki", URL: "https://wiki.archlinux.org/index.php?search={searchTerms}"},
	}
}

// searchDescriptor mirrors the minimal shape Firefox reads back.
type searchDescriptor struct {
	Version int            `json:"version"`
	Engines []SearchEngine `json:"engines"`
	Default string         `json:"metaData,omitempty"`
}

// BuildSearchDescriptor serializes engines and compresses the payload
// into the mozlz4 container. When block compression fails the plain
// JSON is returned instead, with filename signalling the uncompressed
// form so callers place it accordingly.
func BuildSearchDescriptor(engines []SearchEngine) (filename string, data []byte, err error) {
	payload, err := json.Marshal(searchDescriptor{Version: 1, Engines: engines})
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrExtraFailed, "cannot serialize search descriptor")
	}

	compressed, cerr := compressMozLz4(payload)
	if cerr != nil {
		return "search.json", payload, nil
	}
	return "search.json.mozlz4", compressed, nil
}

func compressMozLz4(payload []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(payload)))
	var c lz4.Compressor
	n, err := c.CompressBlock(payload, buf)
	if err != nil || n == 0 {
		return nil, errors.New(errors.ErrExtraFailed, "lz4 block compression produced no output")
	}

	out := make([]byte, 0, len(mozMagic)+4+n)
	out = append(out, mozMagic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, buf[:n]...)
	return out, nil
}

// DecodeSearchDescriptor reverses BuildSearchDescriptor for the
// compressed form.
func DecodeSearchDescriptor(data []byte) ([]byte, error) {
	if len(data) < len(mozMagic)+4 || string(data[:len(mozMagic)]) != mozMagic {
		return nil, errors.New(errors.ErrExtraFailed, "not a mozlz4 container")
	}
	size := binary.LittleEndian.Uint32(data[len(mozMagic) : len(mozMagic)+4])
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[len(mozMagic)+4:], out)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrExtraFailed, "cannot decompress search descriptor")
	}
	return out[:n], nil
}
