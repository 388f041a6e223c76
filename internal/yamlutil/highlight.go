package yamlutil

import (
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
)

// Style holds the escape sequences wrapped around highlighted tokens.
// Empty fields leave the token kind unstyled.
type Style struct {
	KeyPrefix, KeySuffix       string
	StringPrefix, StringSuffix string
}

// Highlight re-prints YAML source with style applied to map keys and
// string values. The text is tokenized only, so any YAML is accepted.
func Highlight(data []byte, style Style) string {
	var p printer.Printer
	if style.KeyPrefix != "" || style.KeySuffix != "" {
		p.MapKey = func() *printer.Property {
			return &printer.Property{Prefix: style.KeyPrefix, Suffix: style.KeySuffix}
		}
	}
	if style.StringPrefix != "" || style.StringSuffix != "" {
		p.String = func() *printer.Property {
			return &printer.Property{Prefix: style.StringPrefix, Suffix: style.StringSuffix}
		}
	}
	return p.PrintTokens(lexer.Tokenize(string(data)))
}
