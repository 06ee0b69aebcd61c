package loader

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// decodeTOML decodes TOML data into v. Unknown keys are errors so that
// typos in setting names do not go unnoticed.
func decodeTOML(source string, data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		perr.Line, perr.Column = decErr.Position()
	}

	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		perr.Message = "unknown setting: " + strictErr.String()
		if len(strictErr.Errors) > 0 {
			perr.Line, perr.Column = strictErr.Errors[0].Position()
		}
	}

	return perr
}
