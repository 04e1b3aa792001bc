package core

import (
	"bufio"
	"bytes"
	"io"
)

// utf8BOM is the byte order mark some editors on Windows prepend to text
// files. encoding/json rejects it, so documents are read through skipBOM.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader over r without a leading UTF-8 BOM.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
