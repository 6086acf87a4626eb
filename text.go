package upng

import (
	"bytes"

	"github.com/pkg/errors"
)

// TextEntry is a retained tEXt chunk: an owned copy of the payload plus
// keyword/text strings split from it at the first NUL byte. At most
// maxTextEntries are retained; later entries are silently ignored.
type TextEntry struct {
	buffer  []byte
	keyword string
	text    string
}

// Keyword returns the text entry's keyword (everything before the first
// NUL).
func (t TextEntry) Keyword() string { return t.keyword }

// Text returns the text entry's payload (everything after the first NUL).
func (t TextEntry) Text() string { return t.text }

// newTextEntry splits a raw tEXt chunk payload into keyword and text. A
// payload with no NUL separator is malformed.
func newTextEntry(payload []byte) (TextEntry, error) {
	sep := bytes.IndexByte(payload, 0)
	if sep < 0 {
		return TextEntry{}, errors.New("upng: tEXt chunk missing NUL separator")
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return TextEntry{
		buffer:  buf,
		keyword: string(buf[:sep]),
		text:    string(buf[sep+1:]),
	}, nil
}
