package psddoc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/oov/psd"
	"golang.org/x/text/encoding/unicode"

	"layerpage/internal/layout"
)

var typeToolKey = psd.AdditionalInfoKey("TySh")

const typeToolHeaderSize = 2 + 6*8

var (
	errTypeToolShort = errors.New("type tool data truncated")

	textItemMarker   = []byte("Txt TEXT")
	engineDataMarker = []byte("EngineDatatdta")

	fontSizePattern  = regexp.MustCompile(`/FontSize\s+(-?[\d.]+)`)
	fontIndexPattern = regexp.MustCompile(`/Font\s+(\d+)`)
	fillColorPattern = regexp.MustCompile(`/FillColor\s*<<\s*/Type\s+1\s*/Values\s*\[\s*(-?[\d.]+)\s+(-?[\d.]+)\s+(-?[\d.]+)\s+(-?[\d.]+)\s*\]`)
)

// ParseTypeTool decodes a "TySh" additional layer info block into a text run.
func ParseTypeTool(data []byte) (*layout.TextRun, error) {
	if len(data) < typeToolHeaderSize {
		return nil, errTypeToolShort
	}
	var values [6]float64
	for i := range values {
		offset := 2 + i*8
		values[i] = math.Float64frombits(binary.BigEndian.Uint64(data[offset : offset+8]))
	}
	run := &layout.TextRun{
		Transform: &layout.Transform{
			XX: values[0],
			XY: values[1],
			YX: values[2],
			YY: values[3],
			TX: values[4],
			TY: values[5],
		},
	}

	descriptor := data[typeToolHeaderSize:]
	if value, ok, err := descriptorText(descriptor); err != nil {
		return nil, err
	} else if ok {
		run.Value = value
	}
	engine, err := engineData(descriptor)
	if err != nil {
		return nil, err
	}
	if engine != nil {
		font, text := ParseEngineData(engine)
		run.Font = font
		if run.Value == "" {
			run.Value = text
		}
	}
	return run, nil
}

func descriptorText(descriptor []byte) (string, bool, error) {
	idx := bytes.Index(descriptor, textItemMarker)
	if idx < 0 {
		return "", false, nil
	}
	rest := descriptor[idx+len(textItemMarker):]
	if len(rest) < 4 {
		return "", false, errTypeToolShort
	}
	count := int(binary.BigEndian.Uint32(rest))
	if len(rest) < 4+2*count {
		return "", false, errTypeToolShort
	}
	value, err := decodeUTF16(rest[4 : 4+2*count])
	if err != nil {
		return "", false, err
	}
	return normalizeText(value), true, nil
}

func engineData(descriptor []byte) ([]byte, error) {
	idx := bytes.Index(descriptor, engineDataMarker)
	if idx < 0 {
		return nil, nil
	}
	rest := descriptor[idx+len(engineDataMarker):]
	if len(rest) < 4 {
		return nil, errTypeToolShort
	}
	size := int(binary.BigEndian.Uint32(rest))
	if len(rest) < 4+size {
		return nil, errTypeToolShort
	}
	return rest[4 : 4+size], nil
}

// ParseEngineData extracts the style of the first run and the raw text from
// type tool engine data. Sizes and colors come from the engine dictionary;
// the font name is resolved through the resource font set.
func ParseEngineData(engine []byte) (*layout.Font, string) {
	styles := engine
	var resources []byte
	if idx := bytes.Index(engine, []byte("/ResourceDict")); idx >= 0 {
		styles = engine[:idx]
		resources = engine[idx:]
	}

	font := &layout.Font{}
	for _, m := range fontSizePattern.FindAllSubmatch(styles, -1) {
		if size, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
			font.Sizes = append(font.Sizes, size)
		}
	}
	for _, m := range fillColorPattern.FindAllSubmatch(styles, -1) {
		font.Colors = append(font.Colors, argbToRGBA(m[1:]))
	}

	names := fontSetNames(resources)
	index := 0
	if m := fontIndexPattern.FindSubmatch(styles); m != nil {
		index, _ = strconv.Atoi(string(m[1]))
	}
	if index < len(names) {
		font.Name = names[index]
	}

	var text string
	if idx := bytes.Index(styles, []byte("/Text (")); idx >= 0 {
		if raw, _, ok := readString(styles[idx+len("/Text "):]); ok {
			text = normalizeText(decodeEngineString(raw))
		}
	}
	return font, text
}

func argbToRGBA(parts [][]byte) [4]uint8 {
	var channels [4]uint8
	for i, part := range parts {
		v, err := strconv.ParseFloat(string(part), 64)
		if err != nil {
			continue
		}
		channels[i] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return [4]uint8{channels[1], channels[2], channels[3], channels[0]}
}

// fontSetNames lists the /Name entries of the /FontSet array in order.
func fontSetNames(resources []byte) []string {
	idx := bytes.Index(resources, []byte("/FontSet"))
	if idx < 0 {
		return nil
	}
	data := resources[idx+len("/FontSet"):]
	var names []string
	depth := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '(':
			_, n, ok := readString(data[i:])
			if !ok {
				return names
			}
			i += n - 1
		case '[':
			depth++
		case ']':
			depth--
			if depth <= 0 {
				return names
			}
		case '/':
			if !bytes.HasPrefix(data[i:], []byte("/Name")) {
				continue
			}
			rest := bytes.TrimLeft(data[i+len("/Name"):], " \t\r\n")
			raw, _, ok := readString(rest)
			if ok {
				names = append(names, decodeEngineString(raw))
			}
		}
	}
	return names
}

// readString reads a parenthesized engine data string starting at data[0]
// and returns its unescaped bytes plus the number of bytes consumed.
func readString(data []byte) ([]byte, int, bool) {
	if len(data) == 0 || data[0] != '(' {
		return nil, 0, false
	}
	var out []byte
	for i := 1; i < len(data); i++ {
		switch data[i] {
		case '\\':
			if i+1 < len(data) {
				i++
				out = append(out, data[i])
			}
		case ')':
			return out, i + 1, true
		default:
			out = append(out, data[i])
		}
	}
	return nil, 0, false
}

func decodeEngineString(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		if s, err := decodeUTF16(raw); err == nil {
			return s
		}
	}
	return string(raw)
}

func decodeUTF16(raw []byte) (string, error) {
	decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	out, err := decoder.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode utf-16: %w", err)
	}
	return string(out), nil
}

func normalizeText(s string) string {
	s = strings.TrimRight(s, "\x00")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
