package content

import (
	"testing"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storyDescriptor(t *testing.T) Descriptor {
	t.Helper()
	for _, d := range Resources {
		if d.Path == "stories" {
			return d
		}
	}
	t.Fatal("stories descriptor missing")
	return Descriptor{}
}

func TestSanitizeAttrsDropsUnknownFields(t *testing.T) {
	d := storyDescriptor(t)

	attrs, err := sanitizeAttrs(d, map[string]any{
		"title":     "My Story!!",
		"content":   "body",
		"id":        999,
		"slug":      "hand-picked-slug",
		"malicious": "DROP TABLE content.stories",
	}, true)

	require.NoError(t, err)
	assert.Equal(t, "My Story!!", attrs["title"])
	assert.Equal(t, "body", attrs["content"])
	assert.NotContains(t, attrs, "id")
	assert.NotContains(t, attrs, "slug")
	assert.NotContains(t, attrs, "malicious")
}

func TestSanitizeAttrsRequiredOnCreate(t *testing.T) {
	d := storyDescriptor(t)

	_, err := sanitizeAttrs(d, map[string]any{"content": "no title"}, true)
	assert.ErrorIs(t, err, apierr.ErrValidationFailed)

	// Partial updates don't re-require the title.
	attrs, err := sanitizeAttrs(d, map[string]any{"content": "no title"}, false)
	require.NoError(t, err)
	assert.Equal(t, "no title", attrs["content"])
}

func TestSanitizeAttrsConvertsArrays(t *testing.T) {
	var d Descriptor
	for _, r := range Resources {
		if r.Path == "ai-tools" {
			d = r
		}
	}
	require.NotEmpty(t, d.Path)

	attrs, err := sanitizeAttrs(d, map[string]any{
		"name":     "Summarizer",
		"features": []any{"summaries", "translation"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"summaries", "translation"}, attrs["features"])

	_, err = sanitizeAttrs(d, map[string]any{
		"name":     "Summarizer",
		"features": []any{"ok", 42},
	}, true)
	assert.ErrorIs(t, err, apierr.ErrValidationFailed)
}

func TestResourceRegistry(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Resources {
		assert.False(t, seen[d.Path], "duplicate path %q", d.Path)
		seen[d.Path] = true

		assert.Contains(t, d.Required, d.TitleField, "%s: title field must be required", d.Path)
		assert.True(t, d.writable(d.TitleField), "%s: title field must be writable", d.Path)
		assert.False(t, d.writable("slug"), "%s: slug is controller-managed", d.Path)
		assert.False(t, d.writable("id"), "%s: id is controller-managed", d.Path)
		for _, f := range d.Filterable {
			assert.NotEqual(t, "slug", f, "%s: slug lookups go through Get", d.Path)
		}
		for _, f := range d.ArrayFields {
			assert.True(t, d.writable(f), "%s: array field %q must be writable", d.Path, f)
		}
	}
	assert.Len(t, Resources, 7)
}
