package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const ansiReset = "\033[0m"

// four-letter, colored level tags for the console
var levelTags = map[string]string{
	"trace": "\033[90mTRCE",
	"debug": "\033[37mDEBG",
	"info":  "\033[32mINFO",
	"warn":  "\033[33mWARN",
	"error": "\033[31mERRO",
	"fatal": "\033[35mFATL",
	"panic": "\033[35mPANC",
}

// newConsoleWriter renders records as "15:04:05 INFO | msg key:value"
func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		FormatLevel: func(i interface{}) string {
			name, _ := i.(string)
			if tag, ok := levelTags[name]; ok {
				return tag + ansiReset
			}
			return strings.ToUpper(name)
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("| %s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("\033[36m%s%s:", i, ansiReset)
		},
	}
}
