package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageMarshalCarriesNature(t *testing.T) {
	img := &ImageResult{
		Format:          "png",
		WidthPx:         180,
		HeightPx:        180,
		ColorMode:       RGBA,
		HasTransparency: true,
		ContentType:     "image/png",
	}

	b, err := json.Marshal(img)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "image", got["nature"])
	assert.Equal(t, "png", got["format"])
	assert.Equal(t, float64(180), got["width_px"])
	assert.Equal(t, true, got["has_transparency"])
	assert.NotContains(t, got, "orientation", "unset optional fields stay out of the payload")
	assert.NotContains(t, got, "num_animation_or_video_frames")
}

func TestAudioMarshalCarriesNature(t *testing.T) {
	audio := &AudioResult{
		Format:       "ogg",
		SampleRateHz: 44100,
		NumChannels:  2,
		DurationS:    835.918367,
		ContentType:  "audio/ogg",
	}

	b, err := json.Marshal(audio)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "audio", got["nature"])
	assert.Equal(t, float64(44100), got["audio_sample_rate_hz"])
}

func TestNatureByVariant(t *testing.T) {
	assert.Equal(t, Image, (&ImageResult{}).Nature())
	assert.Equal(t, Audio, (&AudioResult{}).Nature())
	assert.Equal(t, Document, (&DocumentResult{}).Nature())
	assert.Equal(t, Video, (&VideoResult{}).Nature())
}

func TestNatures(t *testing.T) {
	assert.Nil(t, Natures(nil))
	assert.Equal(t, []Nature{Image, Audio}, Natures([]string{"image", "audio"}))
}
