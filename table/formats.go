package table

import (
	"fmt"

	"hermannm.dev/enumnames"
)

// OutputFormat selects the field delimiter for written result files.
type OutputFormat uint8

const (
	// The delimiter the original gcamreader tooling writes, so downstream scripts keep
	// working on our output files.
	FormatPipe OutputFormat = 1

	FormatComma     OutputFormat = 2
	FormatTab       OutputFormat = 3
	FormatSemicolon OutputFormat = 4
)

var formatNames = enumnames.NewMap(map[OutputFormat]string{
	FormatPipe:      "pipe",
	FormatComma:     "comma",
	FormatTab:       "tab",
	FormatSemicolon: "semicolon",
})

func (format OutputFormat) IsValid() bool {
	return formatNames.ContainsEnumValue(format)
}

func (format OutputFormat) String() string {
	return formatNames.GetNameOrFallback(format, "[INVALID OUTPUT FORMAT]")
}

func (format OutputFormat) MarshalJSON() ([]byte, error) {
	return formatNames.MarshalToNameJSON(format)
}

func (format *OutputFormat) UnmarshalJSON(bytes []byte) error {
	return formatNames.UnmarshalFromNameJSON(bytes, format)
}

func (format OutputFormat) Delimiter() rune {
	switch format {
	case FormatComma:
		return ','
	case FormatTab:
		return '\t'
	case FormatSemicolon:
		return ';'
	default:
		return '|'
	}
}

func ParseOutputFormat(name string) (OutputFormat, error) {
	for _, format := range []OutputFormat{FormatPipe, FormatComma, FormatTab, FormatSemicolon} {
		if formatNames.GetNameOrFallback(format, "") == name {
			return format, nil
		}
	}
	return 0, fmt.Errorf("unsupported output format '%s'", name)
}
