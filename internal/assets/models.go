package assets

import "sort"

// Extension is a lowercased file extension without the leading dot
type Extension string

const (
	ExtPDF  Extension = "pdf"
	ExtTIFF Extension = "tiff"
	ExtTIF  Extension = "tif"
	ExtJP2  Extension = "jp2"
	ExtJ2K  Extension = "j2k"
	ExtXML  Extension = "xml"
)

// Group holds every asset that belongs to one logical page
type Group struct {
	Key        string
	Extensions []Extension // first-seen order
	Files      map[Extension]string
}

// Filename returns the file recorded for ext, if any
func (g *Group) Filename(ext Extension) (string, bool) {
	name, ok := g.Files[ext]
	return name, ok
}

// Collision records a file that replaced an earlier one with the same key and extension
type Collision struct {
	Key       string    `json:"key" yaml:"key"`
	Extension Extension `json:"extension" yaml:"extension"`
	Replaced  string    `json:"replaced" yaml:"replaced"`
	Kept      string    `json:"kept" yaml:"kept"`
}

// Volume is one candidate directory and the page groups found in it
type Volume struct {
	Name       string
	Path       string
	Groups     []*Group // discovery order
	Collisions []Collision

	index map[string]*Group
}

// Empty reports whether no recognized asset was found
func (v *Volume) Empty() bool {
	return len(v.Groups) == 0
}

// FileCount returns the number of distinct files kept after grouping
func (v *Volume) FileCount() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Files)
	}
	return n
}

// Group returns the group for key
func (v *Volume) Group(key string) (*Group, bool) {
	g, ok := v.index[key]
	return g, ok
}

// SortedGroups returns the groups in ascending key order
func (v *Volume) SortedGroups() []*Group {
	groups := make([]*Group, len(v.Groups))
	copy(groups, v.Groups)
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// FirstALTO returns the xml file of the first group, by key, that has one.
// It returns "" when the volume has no xml assets.
func (v *Volume) FirstALTO() string {
	for _, g := range v.SortedGroups() {
		if name, ok := g.Files[ExtXML]; ok {
			return name
		}
	}
	return ""
}

func (v *Volume) add(key string, ext Extension, filename string) {
	if v.index == nil {
		v.index = make(map[string]*Group)
	}

	g, exists := v.index[key]
	if !exists {
		g = &Group{
			Key:   key,
			Files: make(map[Extension]string),
		}
		v.index[key] = g
		v.Groups = append(v.Groups, g)
	}

	if previous, ok := g.Files[ext]; ok {
		v.Collisions = append(v.Collisions, Collision{
			Key:       key,
			Extension: ext,
			Replaced:  previous,
			Kept:      filename,
		})
	} else {
		g.Extensions = append(g.Extensions, ext)
	}
	g.Files[ext] = filename
}
