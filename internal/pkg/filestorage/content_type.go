package filestorage

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"strings"
)

const sniffLen = 512

// Office formats sniff as zip or OLE containers, so the extension wins for them.
var extensionContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain; charset=utf-8",
}

// DetectContentType picks a MIME type from the extension, falling back to sniffing head
func DetectContentType(filename string, head []byte) string {
	if ct, ok := extensionContentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return http.DetectContentType(head)
}

// SniffContentType reads the first bytes of body to detect its type and
// returns a reader that still yields the full content.
func SniffContentType(filename string, body io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]
	return DetectContentType(filename, head), io.MultiReader(bytes.NewReader(head), body), nil
}
