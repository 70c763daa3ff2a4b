package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderMoodChart(t *testing.T) {
	png, err := RenderMoodChart(testEntries())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderMoodChartSingleEntry(t *testing.T) {
	png, err := RenderMoodChart(testEntries()[:1])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderMoodChartNoEntries(t *testing.T) {
	_, err := RenderMoodChart([]models.JournalEntry{})
	assert.Error(t, err)
}
