package heightplot

import (
	"bytes"
	"testing"

	"github.com/banshee-data/footfall/internal/footstep"
	"github.com/banshee-data/footfall/internal/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *footstep.Result {
	return &footstep.Result{
		LengthSeconds: 0.2,
		FrameCount:    6,
		DownHeight:    0.1,
		UpperLimit:    0.8,
		Samples: skeleton.Samples{
			1: skeleton.FromHeights(1.0, 0.5, 0.05, 0.05, 0.6, 1.0),
			2: skeleton.FromHeights(0.3, 0.05, 0.3, 0.3, 0.3, 0.3),
		},
		Feet: []footstep.Foot{
			{Label: "left", JointName: "Bip01 L Toe0", Joint: 1, Plants: []int{2}},
			{Label: "right", JointName: "Bip01 R Toe0", Joint: 2},
			{Label: "left shuffle", JointName: "Bip01 L Toe0", Joint: 1, Shuffle: true},
			{Label: "right shuffle", JointName: "Bip01 R Toe0", Joint: 2, Shuffle: true, Plants: []int{1}},
		},
	}
}

func TestCollect(t *testing.T) {
	series := Collect(sampleResult())

	require.Len(t, series, 2)
	assert.Equal(t, "Bip01 L Toe0", series[0].Label)
	assert.Equal(t, []int{2}, series[0].Plants)
	assert.Empty(t, series[0].Shuffle)
	assert.Equal(t, "Bip01 R Toe0", series[1].Label)
	assert.Equal(t, []int{1}, series[1].Shuffle)
	assert.Len(t, series[1].Heights, 6)
}

func TestCollect_SkipsUnresolvedAndUnsampled(t *testing.T) {
	res := sampleResult()
	res.Feet[0].Joint = skeleton.InvalidJoint
	res.Feet[2].Joint = skeleton.InvalidJoint
	delete(res.Samples, 2)

	assert.Empty(t, Collect(res))
	assert.Nil(t, Collect(nil))
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleResult(), "walk"))

	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(buf.Bytes()[:8]))
}

func TestWritePNG_NoSeries(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePNG(&buf, &footstep.Result{}, "empty"), ErrNoSeries)
	assert.Zero(t, buf.Len())
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleResult(), "walk"))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Bip01 L Toe0")
	assert.Contains(t, html, "upper")
}

func TestRenderHTML_NoSeries(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderHTML(&buf, &footstep.Result{}, "empty"), ErrNoSeries)
	assert.Zero(t, buf.Len())
}
