package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveAndLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := SaveJSONFile(path, payload{Name: "utt", Count: 3})
	assert.NoError(t, err)
	assert.True(t, CheckFileExists(path))
	assert.True(t, CheckDirExists(filepath.Dir(path)))

	var got payload
	assert.NoError(t, LoadJSONFile(path, &got))
	assert.Equal(t, "utt", got.Name)
	assert.Equal(t, 3, got.Count)

	assert.Error(t, LoadJSONFile(filepath.Join(t.TempDir(), "missing.json"), &got))
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "a/b", TrimExt("a/b.rec.json", ".rec.json"))
	assert.Equal(t, "a/b", TrimExt("a/b.wav", ".rec.json"))
	assert.Equal(t, "a/b", TrimExt("a/b"))
}

func TestResolveRelative(t *testing.T) {
	assert.Equal(t, filepath.Join("lists", "a.txt"), ResolveRelative(filepath.Join("lists", "batch.txt"), "a.txt"))
	assert.Equal(t, "/abs/a.txt", ResolveRelative("lists/batch.txt", "/abs/a.txt"))
	assert.Equal(t, "", ResolveRelative("lists/batch.txt", ""))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1h 1m 1s", FormatTimeDuration(3661))
	assert.Equal(t, "2m 5s", FormatTimeDuration(125))
	assert.Equal(t, "00:00:01,500", FormatSRTTimestamp(1500))
	assert.Equal(t, "01:02:03,004", FormatSRTTimestamp(3723004))
	assert.Equal(t, "00:00:00,000", FormatSRTTimestamp(-5))
}
