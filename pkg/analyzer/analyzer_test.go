package analyzer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoPlane/pkg/imageio"
	"StegoPlane/pkg/models"
	"StegoPlane/pkg/stego"
)

func noiseGrid(t *testing.T) *models.PixelGrid {
	t.Helper()
	g, err := models.NewPixelGrid(64, 64, 3)
	require.NoError(t, err)
	// xorshift keeps every plane busy without a fixed pattern
	s := uint32(2463534242)
	for i := range g.Pix {
		s ^= s << 13
		s ^= s >> 17
		s ^= s << 5
		g.Pix[i] = uint8(s >> 24)
	}
	return g
}

func TestAnalyzeRasterFindsEmbeddedPlane(t *testing.T) {
	grid, err := stego.Encode(noiseGrid(t), []byte("find me in plane three"), 3)
	require.NoError(t, err)

	a := NewBitPlaneAnalyzer()
	result, err := a.AnalyzeRaster(&imageio.Raster{Grid: grid, Format: "png"}, AnalysisOptions{MinConfidence: 0.5})
	require.NoError(t, err)

	require.Len(t, result.Planes, 8)
	assert.Equal(t, "png", result.FileType)
	assert.Equal(t, stego.Capacity(grid), result.CapacityBytes)
	assert.Contains(t, result.CandidatePlanes(), 3)

	p := result.Planes[3]
	assert.True(t, p.HeaderValid)
	assert.Equal(t, 8*len("find me in plane three"), p.MessageBits)

	var found *models.Finding
	for i := range result.Findings {
		if strings.HasPrefix(result.Findings[i].Description, "Bit 3 ") {
			found = &result.Findings[i]
		}
	}
	require.NotNil(t, found, "no finding for bit 3 in %+v", result.Findings)
	assert.GreaterOrEqual(t, found.Confidence, 0.5)
	assert.Empty(t, found.Details)
}

func TestAnalyzeRasterVerboseDetails(t *testing.T) {
	grid, err := stego.Encode(noiseGrid(t), []byte("details please"), 5)
	require.NoError(t, err)

	var a FileAnalyzer = NewBitPlaneAnalyzer()
	result, err := a.AnalyzeRaster(&imageio.Raster{Grid: grid}, AnalysisOptions{Verbose: true, MinConfidence: 0.5})
	require.NoError(t, err)

	require.NotEmpty(t, result.Findings)
	for _, f := range result.Findings {
		assert.Contains(t, f.Details, "filler entropy")
		assert.Contains(t, f.Details, "chi-square")
	}
}

func TestAnalyzeZeroImage(t *testing.T) {
	grid, err := models.NewPixelGrid(8, 8, 3)
	require.NoError(t, err)

	result, err := NewBitPlaneAnalyzer().AnalyzeRaster(&imageio.Raster{Grid: grid}, AnalysisOptions{})
	require.NoError(t, err)

	// an all-zero plane decodes as an empty message
	for _, p := range result.Planes {
		assert.True(t, p.HeaderValid)
		assert.Zero(t, p.MessageBits)
		assert.Zero(t, p.Entropy)
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	grid, err := stego.Encode(noiseGrid(t), []byte("on disk"), 0)
	require.NoError(t, err)

	path := filepath.Join(dir, "encoded.png")
	require.NoError(t, imageio.Save(path, &imageio.Raster{Grid: grid}))

	a := NewBitPlaneAnalyzer()
	assert.NotEmpty(t, a.Name())
	assert.NotEmpty(t, a.Description())

	result, err := a.Analyze(path, AnalysisOptions{})
	require.NoError(t, err)
	assert.Equal(t, path, result.Filename)
	assert.True(t, result.Planes[0].HeaderValid)
	assert.Equal(t, 56, result.Planes[0].MessageBits)
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := NewBitPlaneAnalyzer().Analyze(filepath.Join(t.TempDir(), "nope.png"), AnalysisOptions{})
	assert.Error(t, err)
}
