package sinks

import (
	"strings"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/aisjson"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// render renders m/d/tag according to format, returning one or more
// lines to write (NMEA formats may be multi-sentence; JSON formats are
// a single line).
func render(format Format, m *ais.Message, d ais.Decoded, tag *stream.TAG) []string {
	switch format {
	case FormatNMEA, FormatBinaryNMEA:
		return m.NMEA
	case FormatJSONNMEA:
		obj := aisjson.NewObject()
		obj.Add(aisjson.KeyNMEA, aisjson.VStringArray(m.NMEA))
		return []string{aisjson.NewStringBuilder(aisjson.DictFull).Build(obj)}
	case FormatJSONSparse:
		obj := aisjson.Encode(m, d, tag)
		return []string{aisjson.NewStringBuilder(aisjson.DictSparse).Build(obj)}
	case FormatJSONAnnotated:
		// The annotated dictionary variant renders the same object with
		// minimal-dictionary aliases; a richer {value,unit,text} wrapper
		// is future work (see DESIGN.md).
		obj := aisjson.Encode(m, d, tag)
		return []string{aisjson.NewStringBuilder(aisjson.DictMinimal).Build(obj)}
	case FormatJSONFull:
		fallthrough
	default:
		obj := aisjson.Encode(m, d, tag)
		return []string{aisjson.NewStringBuilder(aisjson.DictFull).Build(obj)}
	}
}

func joinSentences(lines []string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}
