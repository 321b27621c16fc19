package avif

import "autoavif/internal/variant"

// AdminThumbnailSize is the edge length of the thumbnails the editing UI
// requests for itself. Those never get a sibling.
const AdminThumbnailSize = 260

// Candidate describes a variant about to be produced.
type Candidate struct {
	Source  variant.Source
	Width   int
	Height  int
	Options variant.Options
	// Ext is the lower-case extension of the variant file.
	Ext   string
	Admin bool
}

// AllowFunc is the user-overridable eligibility predicate. It may inspect
// the owning field, owning record, and extension through the candidate.
type AllowFunc func(Candidate) bool

// AllowAll is the default predicate.
func AllowAll(Candidate) bool { return true }

// IsAdminThumbnail reports whether a request matches the editing UI's
// thumbnail on either axis.
func IsAdminThumbnail(admin bool, width, height int) bool {
	return admin && (width == AdminThumbnailSize || height == AdminThumbnailSize)
}

func candidateFor(req variant.Request, target variant.Variant) Candidate {
	return Candidate{
		Source:  req.Source,
		Width:   req.Width,
		Height:  req.Height,
		Options: req.Options.Clone(),
		Ext:     target.Ext(),
		Admin:   req.Admin,
	}
}

// Eligible reports whether c should get a sibling. It has no side effects.
func (m *Manager) Eligible(c Candidate) bool {
	if IsAdminThumbnail(c.Admin, c.Width, c.Height) {
		return false
	}
	return m.allow(c)
}
