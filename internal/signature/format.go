package signature

import (
	"fmt"
	"strings"
)

// Report is the rendered form of a Match, ready for a report sink.
type Report struct {
	Source      string  `json:"source"`
	Kind        Kind    `json:"kind"`
	Offset      int     `json:"offset"`
	Text        string  `json:"text,omitempty"`
	Bytes       string  `json:"bytes,omitempty"`
	Size        int     `json:"size"`
	GameVersion uint16  `json:"game_version"`
	Protection  string  `json:"protection"`
	RegionKB    float64 `json:"region_kb"`
}

// Format renders m, found in source while scanning for d.
func Format(source string, d Descriptor, m Match) Report {
	r := Report{
		Source:      source,
		Kind:        m.Kind,
		Offset:      m.Offset,
		Size:        int(d.Size),
		GameVersion: d.GameVersion,
		Protection:  ProtectionName(d.ProtectFlag),
		RegionKB:    float64(d.RegionSizeEstimate) / 1000.0,
	}
	if m.Kind == Text {
		r.Text = string(m.Window)
	} else {
		r.Bytes = HexBytes(m.Window)
	}
	return r
}

// HexBytes renders b as space separated two digit hex values.
func HexBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}

// Subject is the match column of a report line: the quoted text, or the hex
// bytes in braces.
func (r Report) Subject() string {
	if r.Kind == Text {
		return `"` + r.Text + `"`
	}
	return "{ " + r.Bytes + " }"
}

// Suffix is the metadata following the subject in a report line.
func (r Report) Suffix() string {
	return fmt.Sprintf("(%d) (v%d) (%s) (~%.3f kb region)", r.Size, r.GameVersion, r.Protection, r.RegionKB)
}

// Line is the flat text report entry for r.
func (r Report) Line() string {
	return fmt.Sprintf("(%s) %s %s", r.Source, r.Subject(), r.Suffix())
}
