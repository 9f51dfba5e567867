package model

// Part is one uploaded video segment of a Day. DataFile optionally points at
// the part's own marker JSON; when empty the file is located by the scanner's
// naming convention.
type Part struct {
	ID       int    `mapstructure:"id" json:"id"`
	VideoID  string `mapstructure:"videoId" json:"videoId"`
	Label    string `mapstructure:"label" json:"label"`
	DataFile string `mapstructure:"dataFile" json:"dataFile,omitempty"`
}

// Day owns an ordered list of one or more Parts of a single night.
type Day struct {
	Number int    `mapstructure:"day" json:"day"`
	Parts  []Part `mapstructure:"parts" json:"parts"`
}

// MultiPart reports whether the day was uploaded in more than one segment.
func (d Day) MultiPart() bool {
	return len(d.Parts) > 1
}

// PartByID resolves a part by id. A part id that is referenced but not
// configured falls back to the day's first part rather than failing the view.
func (d Day) PartByID(id int) (Part, bool) {
	for _, p := range d.Parts {
		if p.ID == id {
			return p, true
		}
	}
	if len(d.Parts) > 0 {
		return d.Parts[0], false
	}
	return Part{}, false
}

// FileEvent describes a change to a marker data file, as reported by the
// data directory watcher.
type FileEvent struct {
	Path      string
	Operation string
}
