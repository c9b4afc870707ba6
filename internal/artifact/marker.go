package artifact

import (
	"fmt"
	"strings"

	"github.com/rcoe/askme/pkg/advisor"
)

// Legacy marker prefixes embedded in reply text by the outward edge.
// Presentation layers recognise these and turn them into download links.
//
// Wire shapes:
//
//	PDF_DOWNLOAD:{domain}:{id}
//	REPORT_DOWNLOAD:{domain}:{FORMAT}:{id}
//
// The shape is stable and unambiguous: domain is a closed enum, format is a
// short alphanumeric token and id is a UUID, so no field ever contains the
// separator.
const (
	pdfMarkerPrefix    = "PDF_DOWNLOAD:"
	reportMarkerPrefix = "REPORT_DOWNLOAD:"
	reportKindPrefix   = "report:"
)

// EncodeMarker serialises an artifact reference to its marker string.
func EncodeMarker(ref advisor.ArtifactRef) string {
	if format, ok := strings.CutPrefix(ref.Kind, reportKindPrefix); ok {
		return fmt.Sprintf("%s%s:%s:%s", reportMarkerPrefix, ref.Domain, strings.ToUpper(format), ref.ID)
	}
	return fmt.Sprintf("%s%s:%s", pdfMarkerPrefix, ref.Domain, ref.ID)
}

// ParseMarker decodes a marker string back to an artifact reference.
// Returns false for text that is not a well-formed marker.
func ParseMarker(s string) (advisor.ArtifactRef, bool) {
	if rest, ok := strings.CutPrefix(s, pdfMarkerPrefix); ok {
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return advisor.ArtifactRef{}, false
		}
		domain, ok := advisor.ParseIntent(parts[0])
		if !ok {
			return advisor.ArtifactRef{}, false
		}
		return advisor.ArtifactRef{ID: parts[1], Kind: "pdf", Domain: domain}, true
	}

	if rest, ok := strings.CutPrefix(s, reportMarkerPrefix); ok {
		parts := strings.SplitN(rest, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return advisor.ArtifactRef{}, false
		}
		domain, ok := advisor.ParseIntent(parts[0])
		if !ok {
			return advisor.ArtifactRef{}, false
		}
		kind := reportKindPrefix + strings.ToLower(parts[1])
		return advisor.ArtifactRef{ID: parts[2], Kind: kind, Domain: domain}, true
	}

	return advisor.ArtifactRef{}, false
}

// ContainsMarker reports whether the reply text embeds a download marker.
// Replies with markers bypass the decorative response formatting.
func ContainsMarker(s string) bool {
	return strings.Contains(s, pdfMarkerPrefix) || strings.Contains(s, reportMarkerPrefix)
}
