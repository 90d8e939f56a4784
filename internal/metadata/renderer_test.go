package metadata

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namereg/internal/registry/models"
)

func decodeDocument(t *testing.T, uri string) Document {
	t.Helper()
	const prefix = "data:application/json;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestRenderIsDeterministic(t *testing.T) {
	profile := models.Profile{Twitter: "@alice", Telegram: "alice_tg", Discord: "alice#1", Verified: true}
	first := Render(1, "alice", profile)
	second := Render(1, "alice", profile)
	assert.Equal(t, first, second)
}

func TestRenderDocumentContents(t *testing.T) {
	profile := models.Profile{Twitter: "@alice", Telegram: "alice_tg", Discord: "alice#1"}
	doc := decodeDocument(t, Render(7, "alice", profile))

	assert.Equal(t, "alice"+DomainSuffix, doc.Name)
	assert.NotEmpty(t, doc.Description)
	assert.True(t, strings.HasPrefix(doc.Image, "data:image/svg+xml;base64,"))

	byTrait := map[string]string{}
	for _, attr := range doc.Attributes {
		byTrait[attr.TraitType] = attr.Value
	}
	assert.Equal(t, "@alice", byTrait["Twitter"])
	assert.Equal(t, "alice_tg", byTrait["Telegram"])
	assert.Equal(t, "alice#1", byTrait["Discord"])
	assert.Equal(t, "false", byTrait["Verified"])
}

func TestVerifiedRendersAsLiteralString(t *testing.T) {
	doc := decodeDocument(t, Render(1, "alice", models.Profile{Verified: true}))
	for _, attr := range doc.Attributes {
		if attr.TraitType == "Verified" {
			assert.Equal(t, "true", attr.Value)
			return
		}
	}
	t.Fatal("verified attribute missing")
}

func TestImageIsNamePure(t *testing.T) {
	assert.Equal(t, Image("alice"), Image("alice"))
	assert.NotEqual(t, Image("alice"), Image("bob"))

	// Identical names render identical documents regardless of record id.
	profile := models.Profile{}
	assert.Equal(t, Render(1, "alice", profile), Render(2, "alice", profile))
}

func TestImageDecodesToSVG(t *testing.T) {
	uri := Image("alice")
	const prefix = "data:image/svg+xml;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)

	svg := string(raw)
	assert.Contains(t, svg, `width="350"`)
	assert.Contains(t, svg, "alice"+DomainSuffix)
}

func TestRenderNeverPanicsOnOddProfiles(t *testing.T) {
	odd := models.Profile{
		Twitter: strings.Repeat("x", 10_000),
		Bio:     "line\nbreaks \"quotes\" <tags>",
	}
	assert.NotPanics(t, func() { Render(1, "alice", odd) })
}
