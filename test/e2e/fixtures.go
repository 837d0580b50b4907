package e2e

import (
	"archive/zip"
	"bytes"
	"strings"
)

// ResumeDOCX builds minimal .docx bytes with one paragraph per line, the
// same shape the extractor sees in real word-processor exports minus the
// styling parts it ignores. PDF fixtures are not generated here: the
// plain-text PDF reader joins text runs without line breaks, so section
// headers would not survive; PDF extraction is covered by the extractor's
// own tests.
func ResumeDOCX(lines ...string) []byte {
	var body strings.Builder
	for _, ln := range lines {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + ln + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}
