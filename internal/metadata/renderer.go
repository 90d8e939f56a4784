// Package metadata renders the self-describing document for a record as an
// inline data URI. Rendering is a pure function of (record id, name, profile
// snapshot): no I/O, no hidden state, reproducible bit-for-bit.
package metadata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"namereg/internal/registry/models"
	id "namereg/pkg/domain"
)

const (
	// DomainSuffix is appended to every rendered name.
	DomainSuffix = ".id"

	description = "A unique human-readable handle on the name registry."

	canvasSize = 350
	background = "#1b2a4a"
	textColor  = "#ffffff"
)

// Attribute is one display trait in the rendered document.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Document is the descriptive payload embedded in the data URI.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Image renders the inline SVG for a name as a base64 data URI. It depends
// on the name only, so two records with the same name would render the same
// image (unreachable under the uniqueness invariant, but it keeps the
// function trivially testable).
func Image(name string) string {
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<rect width="100%%" height="100%%" fill="%s"/>`+
			`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" fill="%s" font-family="monospace" font-size="24">%s%s</text>`+
			`</svg>`,
		canvasSize, canvasSize, background, textColor, name, DomainSuffix,
	)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// Render produces the full metadata document for a record as a base64 JSON
// data URI. It never fails on valid profile content; the record id is
// accepted for interface completeness but the output is derived from name
// and profile alone.
func Render(_ id.RecordID, name string, profile models.Profile) string {
	doc := Document{
		Name:        name + DomainSuffix,
		Description: description,
		Image:       Image(name),
		Attributes: []Attribute{
			{TraitType: "Twitter", Value: profile.Twitter},
			{TraitType: "Telegram", Value: profile.Telegram},
			{TraitType: "Discord", Value: profile.Discord},
			{TraitType: "Verified", Value: fmt.Sprintf("%t", profile.Verified)},
		},
	}

	// Marshaling a struct of strings cannot fail.
	payload, _ := json.Marshal(doc)
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(payload)
}
