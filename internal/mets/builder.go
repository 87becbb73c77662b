package mets

import (
	"time"

	"github.com/lehigh-university-libraries/metsgen/internal/assets"
)

// Options controls values that are not derived from the scanned files
type Options struct {
	CreateDate time.Time
}

// Build assembles the manifest for a scanned volume.
// The inventory follows discovery order; the structural map lists pages by key.
func Build(volume *assets.Volume, opts Options) *Document {
	doc := &Document{
		Xmlns:          NamespaceMETS,
		XmlnsXLink:     NamespaceXLink,
		XmlnsXSI:       NamespaceXSI,
		SchemaLocation: SchemaLocation,
		ID:             volume.Name,
		Header: Header{
			CreateDate: FormatCreateDate(opts.CreateDate),
		},
		DmdSec: DmdSec{
			ID: "dmd1",
			MdWrap: MdWrap{
				MDType:      "OTHER",
				OtherMDType: "ALTO",
				XMLData: XMLData{
					ALTOFile: volume.FirstALTO(),
				},
			},
		},
		FileSec: FileSec{
			FileGrp: FileGrp{
				Use:   "master",
				Files: make([]File, 0, volume.FileCount()),
			},
		},
		StructMap: StructMap{
			Type: "physical",
			Volume: Div{
				Type:     "volume",
				Label:    volume.Name,
				Children: make([]Div, 0, len(volume.Groups)),
			},
		},
	}

	for _, group := range volume.Groups {
		for _, ext := range group.Extensions {
			doc.FileSec.FileGrp.Files = append(doc.FileSec.FileGrp.Files, File{
				ID:       assets.FileID(group.Key, ext),
				MIMEType: assets.MIMEType(ext),
				FLocat: FLocat{
					LocType: "URL",
					Href:    group.Files[ext],
				},
			})
		}
	}

	for _, group := range volume.SortedGroups() {
		page := Div{
			Type:     "page",
			Label:    group.Key,
			Pointers: make([]Fptr, 0, len(group.Extensions)),
		}
		for _, ext := range group.Extensions {
			page.Pointers = append(page.Pointers, Fptr{FileID: assets.FileID(group.Key, ext)})
		}
		doc.StructMap.Volume.Children = append(doc.StructMap.Volume.Children, page)
	}

	return doc
}
