package mets

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metsgen/internal/assets"
)

var testDate = time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)

func scanFixture(t *testing.T, name string, files ...string) *assets.Volume {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.Mkdir(dir, 0755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
	volume, err := assets.Scan(dir)
	require.NoError(t, err)
	return volume
}

func TestBuild_HeaderAndRoot(t *testing.T) {
	volume := scanFixture(t, "vol_001", "p_1.tif")

	doc := Build(volume, Options{CreateDate: testDate})

	assert.Equal(t, "vol_001", doc.ID)
	assert.Equal(t, NamespaceMETS, doc.Xmlns)
	assert.Equal(t, NamespaceXLink, doc.XmlnsXLink)
	assert.Equal(t, NamespaceXSI, doc.XmlnsXSI)
	assert.Equal(t, SchemaLocation, doc.SchemaLocation)
	assert.Equal(t, "2025-04-07T00:00:00", doc.Header.CreateDate)
	assert.Equal(t, "dmd1", doc.DmdSec.ID)
	assert.Equal(t, "OTHER", doc.DmdSec.MdWrap.MDType)
	assert.Equal(t, "ALTO", doc.DmdSec.MdWrap.OtherMDType)
	assert.Equal(t, "master", doc.FileSec.FileGrp.Use)
	assert.Equal(t, "physical", doc.StructMap.Type)
	assert.Equal(t, "volume", doc.StructMap.Volume.Type)
	assert.Equal(t, "vol_001", doc.StructMap.Volume.Label)
}

func TestBuild_SinglePageThreeVariants(t *testing.T) {
	volume := scanFixture(t, "vol", "report.pdf", "report_1.xml", "report 1.tif")

	doc := Build(volume, Options{CreateDate: testDate})

	pages := doc.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, "page", pages[0].Type)
	assert.Equal(t, "report", pages[0].Label)
	assert.Equal(t, []Fptr{
		{FileID: "f_report_tif"},
		{FileID: "f_report_pdf"},
		{FileID: "f_report_xml"},
	}, pages[0].Pointers)

	assert.Equal(t, "report_1.xml", doc.DmdSec.MdWrap.XMLData.ALTOFile)

	files := doc.FileSec.FileGrp.Files
	require.Len(t, files, 3)
	assert.Equal(t, File{
		ID:       "f_report_tif",
		MIMEType: "image/tiff",
		FLocat:   FLocat{LocType: "URL", Href: "report 1.tif"},
	}, files[0])
}

func TestBuild_PagesSortedAndReferencesMatch(t *testing.T) {
	volume := scanFixture(t, "vol",
		"c.pdf", "a-.xml", "a_1.xml", "b 1.jp2", "b.j2k", "page1.xml", "page.xml", "cover.jpg")

	doc := Build(volume, Options{CreateDate: testDate})

	var labels []string
	for _, page := range doc.Pages() {
		labels = append(labels, page.Label)
	}
	assert.True(t, sort.StringsAreSorted(labels), "pages must be in ascending key order: %v", labels)
	assert.Equal(t, []string{"a", "a-", "b", "c", "page", "page1"}, labels)

	fileIDs := doc.FileIDs()
	pointerIDs := doc.PointerIDs()
	sort.Strings(fileIDs)
	sort.Strings(pointerIDs)
	assert.Equal(t, fileIDs, pointerIDs)

	for _, id := range fileIDs {
		assert.NotContains(t, id, "jpg")
	}

	// first group by key with an xml asset, not first discovered
	assert.Equal(t, "a_1.xml", doc.DmdSec.MdWrap.XMLData.ALTOFile)
}

func TestBuild_InventoryFollowsDiscoveryOrder(t *testing.T) {
	volume := scanFixture(t, "vol", "a-.xml", "a_1.xml")

	doc := Build(volume, Options{CreateDate: testDate})

	assert.Equal(t, []string{"f_a-_xml", "f_a_xml"}, doc.FileIDs())
	assert.Equal(t, []string{"f_a_xml", "f_a-_xml"}, doc.PointerIDs())
}

func TestBuild_NoALTO(t *testing.T) {
	volume := scanFixture(t, "vol", "scan.tif", "scan.pdf")

	doc := Build(volume, Options{CreateDate: testDate})
	assert.Empty(t, doc.DmdSec.MdWrap.XMLData.ALTOFile)

	data, err := Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "altoFile")
	assert.Contains(t, string(data), "<xmlData></xmlData>")
}

func TestBuild_SpacesInKeys(t *testing.T) {
	volume := scanFixture(t, "vol", "title page.tif", "title page_1.xml")

	doc := Build(volume, Options{CreateDate: testDate})

	require.Len(t, doc.Pages(), 1)
	assert.Equal(t, "title page", doc.Pages()[0].Label)
	assert.ElementsMatch(t, []string{"f_title_page_tif", "f_title_page_xml"}, doc.PointerIDs())
}

func TestMarshal_Layout(t *testing.T) {
	volume := scanFixture(t, "vol", "p.xml")

	data, err := Marshal(Build(volume, Options{CreateDate: testDate}))
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.True(t, strings.HasSuffix(out, "</mets>\n"))
	assert.Contains(t, out, `<mets xmlns="http://www.loc.gov/METS/" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://www.loc.gov/METS/ http://www.loc.gov/standards/mets/mets.xsd" ID="vol">`)
	assert.Contains(t, out, "\n  <metsHdr CREATEDATE=\"2025-04-07T00:00:00\"></metsHdr>")
	assert.Contains(t, out, "\n        <altoFile>p.xml</altoFile>")
	assert.Contains(t, out, `<FLocat LOCTYPE="URL" xlink:href="p.xml"></FLocat>`)
	assert.Contains(t, out, `<div TYPE="page" LABEL="p">`)
	assert.Contains(t, out, `<fptr FILEID="f_p_xml"></fptr>`)

	// sections appear in fixed order
	hdr := strings.Index(out, "<metsHdr")
	dmd := strings.Index(out, "<dmdSec")
	fileSec := strings.Index(out, "<fileSec")
	structMap := strings.Index(out, "<structMap")
	assert.True(t, hdr < dmd && dmd < fileSec && fileSec < structMap)
}

func TestMarshal_Deterministic(t *testing.T) {
	volume := scanFixture(t, "vol", "b.pdf", "a.tif", "a_1.xml", "c 1.jp2")

	first, err := Marshal(Build(volume, Options{CreateDate: testDate}))
	require.NoError(t, err)
	second, err := Marshal(Build(volume, Options{CreateDate: testDate}))
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestMarshal_EscapesNames(t *testing.T) {
	volume := scanFixture(t, "vol", "Tom & Jerry.pdf")

	data, err := Marshal(Build(volume, Options{CreateDate: testDate}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `xlink:href="Tom &amp; Jerry.pdf"`)

	doc, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry.pdf", doc.FileSec.FileGrp.Files[0].FLocat.Href)
}

func TestParse_ReadsMarshalledDocument(t *testing.T) {
	volume := scanFixture(t, "vol", "p_1.tif", "p.xml", "q.pdf")
	built := Build(volume, Options{CreateDate: testDate})

	data, err := Marshal(built)
	require.NoError(t, err)

	parsed, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "vol", parsed.ID)
	assert.Equal(t, NamespaceMETS, parsed.Xmlns)
	assert.Equal(t, NamespaceXLink, parsed.XmlnsXLink)
	assert.Equal(t, NamespaceXSI, parsed.XmlnsXSI)
	assert.Equal(t, SchemaLocation, parsed.SchemaLocation)
	assert.Equal(t, built.Header, parsed.Header)
	assert.Equal(t, built.DmdSec, parsed.DmdSec)
	assert.Equal(t, built.FileSec, parsed.FileSec)
	assert.Equal(t, built.StructMap, parsed.StructMap)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("<mets><metsHdr"))
	assert.Error(t, err)
}
