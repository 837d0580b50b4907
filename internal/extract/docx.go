package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// contentTypesPath is the path to [Content_Types].xml in OOXML packages.
const contentTypesPath = "[Content_Types].xml"

// docxMainContentType is the content type for the main document in DOCX files.
const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// wpTag matches one <w:p>...</w:p> paragraph, with or without attributes.
// Real-world documents carry attributes (e.g. <w:p w:rsidR="...">), so the
// open tag must not be matched literally.
var wpTag = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?>(.*?)</w:p>`)

// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t> (and any other attributes).
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// partNameRe extracts PartName from Override elements in [Content_Types].xml.
var partNameRe = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)

// partNameRe2 handles the case where ContentType appears before PartName.
var partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)

// Structural signatures probed by scanDOCXStructure.
var (
	// tblTag matches the opening of a <w:tbl> table element.
	tblTag = regexp.MustCompile(`<w:tbl[\s>]`)
	// colsNumAttr captures the column count of a <w:cols> section layout.
	colsNumAttr = regexp.MustCompile(`<w:cols[^>]*\sw:num="(\d+)"`)
)

// imageSignatures mark embedded or anchored graphics in the document XML.
var imageSignatures = []string{"<w:drawing", "<w:pict", "<a:blip"}

// xmlEntities undoes the escaping OOXML applies inside <w:t> nodes.
var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// findDocxMainDocumentPath finds the main document path from [Content_Types].xml.
// Returns the path without leading slash, or empty string if not found.
func findDocxMainDocumentPath(zr *zip.Reader) string {
	content, err := readZipPart(zr, contentTypesPath)
	if err != nil {
		return ""
	}
	// Try both attribute orders
	if matches := partNameRe.FindStringSubmatch(string(content)); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "/")
	}
	if matches := partNameRe2.FindStringSubmatch(string(content)); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "/")
	}
	return ""
}

// readZipPart returns the decompressed bytes of the named file in the archive.
func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		_ = rc.Close()
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%s not found", name)
}

// mainDocumentXML opens content as an OOXML zip and returns the raw XML of
// the main document part.
func mainDocumentXML(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("not a zip: %w", err)
	}
	docPath := findDocxMainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
	}
	return readZipPart(zr, docPath)
}

// extractDOCXText extracts plain text from .docx bytes. DOCX is a ZIP
// containing word/document.xml (OOXML). Each <w:p> paragraph becomes one
// line; the <w:t> runs inside a paragraph are concatenated. Documents whose
// body carries no <w:p> wrapper at all fall back to collecting every <w:t>
// node so no text is silently lost.
func extractDOCXText(content []byte) (string, error) {
	docXML, err := mainDocumentXML(content)
	if err != nil {
		return "", err
	}
	xml := string(docXML)

	paragraphs := wpTag.FindAllStringSubmatch(xml, -1)
	if len(paragraphs) == 0 {
		runs := wtTag.FindAllStringSubmatch(xml, -1)
		if len(runs) == 0 {
			return "", nil
		}
		parts := make([]string, 0, len(runs))
		for _, r := range runs {
			parts = append(parts, xmlEntities.Replace(r[1]))
		}
		return strings.TrimSpace(strings.Join(parts, " ")), nil
	}

	var b strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range wtTag.FindAllStringSubmatch(p[1], -1) {
			b.WriteString(xmlEntities.Replace(r[1]))
		}
	}
	return b.String(), nil
}

// scanDOCXStructure probes the main document XML for layout traits: table
// markup, graphic elements, and multi-column section layouts. The probes are
// independent; each flag reflects only its own signature. The first
// <w:cols> with more than one column fixes the reported column count.
func scanDOCXStructure(content []byte) (models.ExtractionMetadata, error) {
	docXML, err := mainDocumentXML(content)
	if err != nil {
		return models.ExtractionMetadata{}, err
	}
	xml := string(docXML)

	var meta models.ExtractionMetadata
	meta.HasTables = tblTag.MatchString(xml)
	for _, sig := range imageSignatures {
		if strings.Contains(xml, sig) {
			meta.HasImages = true
			break
		}
	}
	for _, m := range colsNumAttr.FindAllStringSubmatch(xml, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > 1 {
			meta.HasMultiColumn = true
			meta.ColumnCount = n
			break
		}
	}
	return meta, nil
}
