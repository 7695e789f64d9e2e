package discogen

import (
	"io"

	"github.com/goccy/go-json"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// UnmarshalFlag decodes the JSON value of a command-line flag into dst.
// An empty value leaves dst unchanged.
func UnmarshalFlag(flag, value string, dst any) error {
	if value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(value), dst); err != nil {
		return Errorf(CodeInvalidArgument, "--%s: invalid JSON: %v", flag, err)
	}
	return nil
}
