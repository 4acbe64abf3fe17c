package parser

import (
	"os"
	"path/filepath"
)

// ParseFile reads filePath and parses it into a Program in one call,
// releasing the file handle before returning (os.ReadFile closes it
// internally). sigil is the variable-reference prefix to recognize;
// pass parser.DefaultSigil for the default.
func ParseFile(filePath string, sigil byte) (*Program, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided source file path
	if err != nil {
		return nil, NewError(
			Position{Filename: filepath.Base(filePath)},
			ErrCannotReadFile,
			err.Error(),
		)
	}

	p := NewParser(filepath.Base(filePath), sigil)
	return p.Parse(string(content))
}
