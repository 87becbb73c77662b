package mets

import (
	"encoding/xml"
	"time"
)

const (
	NamespaceMETS  = "http://www.loc.gov/METS/"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
	NamespaceXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = "http://www.loc.gov/METS/ http://www.loc.gov/standards/mets/mets.xsd"

	// CreateDateLayout is the metsHdr CREATEDATE format
	CreateDateLayout = "2006-01-02T15:04:05"
)

// Document is the root mets element.
// Namespace declarations are plain attributes so the output keeps
// unprefixed METS element names.
type Document struct {
	XMLName        xml.Name  `xml:"mets"`
	Xmlns          string    `xml:"xmlns,attr"`
	XmlnsXLink     string    `xml:"xmlns:xlink,attr"`
	XmlnsXSI       string    `xml:"xmlns:xsi,attr"`
	SchemaLocation string    `xml:"xsi:schemaLocation,attr"`
	ID             string    `xml:"ID,attr"`
	Header         Header    `xml:"metsHdr"`
	DmdSec         DmdSec    `xml:"dmdSec"`
	FileSec        FileSec   `xml:"fileSec"`
	StructMap      StructMap `xml:"structMap"`
}

// UnmarshalXML decodes the document and restores the namespace declarations,
// which the decoder reports under the xmlns and xsi namespaces instead of by
// their prefixed names.
func (d *Document) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	type plain Document
	var doc plain
	if err := dec.DecodeElement(&doc, &start); err != nil {
		return err
	}

	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			doc.Xmlns = attr.Value
		case attr.Name.Space == "xmlns" && attr.Name.Local == "xlink":
			doc.XmlnsXLink = attr.Value
		case attr.Name.Space == "xmlns" && attr.Name.Local == "xsi":
			doc.XmlnsXSI = attr.Value
		case attr.Name.Local == "schemaLocation":
			doc.SchemaLocation = attr.Value
		}
	}

	*d = Document(doc)
	return nil
}

// Header is the metsHdr element
type Header struct {
	CreateDate string `xml:"CREATEDATE,attr"`
}

// DmdSec is the descriptive metadata section referencing an ALTO file
type DmdSec struct {
	ID     string `xml:"ID,attr"`
	MdWrap MdWrap `xml:"mdWrap"`
}

// MdWrap wraps the ALTO reference
type MdWrap struct {
	MDType      string  `xml:"MDTYPE,attr"`
	OtherMDType string  `xml:"OTHERMDTYPE,attr"`
	XMLData     XMLData `xml:"xmlData"`
}

// XMLData holds the optional ALTO filename
type XMLData struct {
	ALTOFile string `xml:"altoFile,omitempty"`
}

// FileSec is the file inventory
type FileSec struct {
	FileGrp FileGrp `xml:"fileGrp"`
}

// FileGrp groups files by usage
type FileGrp struct {
	Use   string `xml:"USE,attr"`
	Files []File `xml:"file"`
}

// File is one inventory entry
type File struct {
	ID       string `xml:"ID,attr"`
	MIMEType string `xml:"MIMETYPE,attr"`
	FLocat   FLocat `xml:"FLocat"`
}

// FLocat locates a file relative to the manifest
type FLocat struct {
	LocType string `xml:"LOCTYPE,attr"`
	Href    string `xml:"xlink:href,attr"`
}

// UnmarshalXML reads the locator attributes. Decoding resolves the xlink
// prefix to its namespace, which the marshal tag cannot match.
func (l *FLocat) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "LOCTYPE":
			l.LocType = attr.Value
		case "href":
			l.Href = attr.Value
		}
	}
	return d.Skip()
}

// StructMap is the physical structural map
type StructMap struct {
	Type   string `xml:"TYPE,attr"`
	Volume Div    `xml:"div"`
}

// Div is a volume or page node
type Div struct {
	Type     string `xml:"TYPE,attr"`
	Label    string `xml:"LABEL,attr"`
	Pointers []Fptr `xml:"fptr,omitempty"`
	Children []Div  `xml:"div,omitempty"`
}

// Fptr points from a page node to an inventory file
type Fptr struct {
	FileID string `xml:"FILEID,attr"`
}

// FormatCreateDate renders t in the metsHdr layout
func FormatCreateDate(t time.Time) string {
	return t.Format(CreateDateLayout)
}

// FileIDs returns the identifiers listed in the file inventory
func (d *Document) FileIDs() []string {
	ids := make([]string, 0, len(d.FileSec.FileGrp.Files))
	for _, f := range d.FileSec.FileGrp.Files {
		ids = append(ids, f.ID)
	}
	return ids
}

// PointerIDs returns the identifiers referenced by the structural map
func (d *Document) PointerIDs() []string {
	var ids []string
	for _, page := range d.StructMap.Volume.Children {
		for _, ptr := range page.Pointers {
			ids = append(ids, ptr.FileID)
		}
	}
	return ids
}

// Pages returns the page nodes of the structural map
func (d *Document) Pages() []Div {
	return d.StructMap.Volume.Children
}
