package frontmatter

import "bytes"

// Style captures the newline shape of a document so the composed header can
// match it. It does not attempt to preserve any other formatting.
type Style struct {
	Newline string
}

// DetectStyle inspects content for its newline convention. Documents with no
// newline at all default to \n.
func DetectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}
	return Style{Newline: newline}
}

// Compose prepends a `---` delimited metadata block and a blank line ahead of
// the raw content. The content itself is carried byte-for-byte; the header
// adopts the content's newline style. Compose is pure: it never mutates meta.
func Compose(meta map[string]any, content []byte) ([]byte, error) {
	style := DetectStyle(content)
	nl := style.Newline

	header, err := SerializeYAML(meta, style)
	if err != nil {
		return nil, err
	}

	delim := []byte("---" + nl)
	blank := []byte(nl)

	out := make([]byte, 0, 2*len(delim)+len(header)+len(blank)+len(content))
	out = append(out, delim...)
	out = append(out, header...)
	out = append(out, delim...)
	out = append(out, blank...)
	out = append(out, content...)
	return out, nil
}

// HasHeader reports whether content already starts with a `---` delimited
// block. Source documents are expected to be headerless; emitters use this to
// warn rather than double-wrap.
func HasHeader(content []byte) bool {
	return bytes.HasPrefix(content, []byte("---\n")) || bytes.HasPrefix(content, []byte("---\r\n"))
}
