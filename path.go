package discogen

import (
	"net/url"
	"strings"
)

// Expand fills a path template. "{name}" is replaced by the escaped value;
// "{+name}" is a reserved expansion that keeps "/" unescaped, as used for
// object names that contain slashes. A variable without a value is an
// invalid_argument Error.
func Expand(template string, params map[string]string) (string, error) {
	var sb strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", Errorf(CodeInvalidArgument, "unterminated variable in path template %q", template)
		}
		sb.WriteString(rest[:open])
		name := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		reserved := strings.HasPrefix(name, "+")
		name = strings.TrimPrefix(name, "+")
		value, ok := params[name]
		if !ok || value == "" {
			return "", Errorf(CodeInvalidArgument, "missing path parameter %q", name).WithDetail("template", template)
		}
		if reserved {
			segments := strings.Split(value, "/")
			for i, s := range segments {
				segments[i] = url.PathEscape(s)
			}
			sb.WriteString(strings.Join(segments, "/"))
			continue
		}
		sb.WriteString(url.PathEscape(value))
	}
}
