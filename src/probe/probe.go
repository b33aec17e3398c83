package probe

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/mediaprobe/MediaProbe/src/reader"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Nature is the high-level media kind a parser produces.
type Nature string

const (
	Image    Nature = "image"
	Audio    Nature = "audio"
	Document Nature = "document"
	Video    Nature = "video"
)

type ColorMode string

const (
	Grayscale ColorMode = "grayscale"
	RGB       ColorMode = "rgb"
	RGBA      ColorMode = "rgba"
	Indexed   ColorMode = "indexed"
	CMYK      ColorMode = "cmyk"
)

// Orientation follows the EXIF naming for the eight possible placements of
// the image's first row/column.
type Orientation string

const (
	TopLeft     Orientation = "top_left"
	TopRight    Orientation = "top_right"
	BottomRight Orientation = "bottom_right"
	BottomLeft  Orientation = "bottom_left"
	LeftTop     Orientation = "left_top"
	RightTop    Orientation = "right_top"
	RightBottom Orientation = "right_bottom"
	LeftBottom  Orientation = "left_bottom"
)

// Natures converts the string form used by flags and queue payloads.
func Natures(ss []string) []Nature {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Nature, 0, len(ss))
	for _, s := range ss {
		out = append(out, Nature(s))
	}
	return out
}

// Result is one identified media file. The concrete type decides the nature.
type Result interface {
	Nature() Nature
	MIMEType() string
}

// Parser identifies one format family. Implementations are stateless and
// reused across parses. Returning (nil, nil) means "not this format".
type Parser interface {
	// LikelyMatch reports whether the filename hints at this format. It only
	// biases dispatch order; a miss never excludes the parser.
	LikelyMatch(name string) bool
	// Parse reads the header structure from src and returns a populated
	// result, or nil when the bytes are not this format.
	Parse(src reader.Source) (Result, error)
}

type ImageResult struct {
	Format            string                 `json:"format"`
	WidthPx           int                    `json:"width_px"`
	HeightPx          int                    `json:"height_px"`
	ColorMode         ColorMode              `json:"color_mode"`
	HasTransparency   bool                   `json:"has_transparency"`
	HasMultipleFrames bool                   `json:"has_multiple_frames,omitempty"`
	NumFrames         int                    `json:"num_animation_or_video_frames,omitempty"`
	Orientation       Orientation            `json:"orientation,omitempty"`
	ContentType       string                 `json:"content_type"`
	Intrinsics        map[string]interface{} `json:"intrinsics,omitempty"`
}

func (r *ImageResult) Nature() Nature   { return Image }
func (r *ImageResult) MIMEType() string { return r.ContentType }

func (r *ImageResult) MarshalJSON() ([]byte, error) {
	type alias ImageResult
	return json.Marshal(&struct {
		Nature Nature `json:"nature"`
		*alias
	}{Image, (*alias)(r)})
}

type AudioResult struct {
	Format       string                 `json:"format"`
	SampleRateHz int                    `json:"audio_sample_rate_hz"`
	NumChannels  int                    `json:"num_audio_channels"`
	DurationS    float64                `json:"media_duration_seconds"`
	ContentType  string                 `json:"content_type"`
	Intrinsics   map[string]interface{} `json:"intrinsics,omitempty"`
}

func (r *AudioResult) Nature() Nature   { return Audio }
func (r *AudioResult) MIMEType() string { return r.ContentType }

func (r *AudioResult) MarshalJSON() ([]byte, error) {
	type alias AudioResult
	return json.Marshal(&struct {
		Nature Nature `json:"nature"`
		*alias
	}{Audio, (*alias)(r)})
}

type DocumentResult struct {
	Format      string                 `json:"format"`
	ContentType string                 `json:"content_type"`
	Intrinsics  map[string]interface{} `json:"intrinsics,omitempty"`
}

func (r *DocumentResult) Nature() Nature   { return Document }
func (r *DocumentResult) MIMEType() string { return r.ContentType }

func (r *DocumentResult) MarshalJSON() ([]byte, error) {
	type alias DocumentResult
	return json.Marshal(&struct {
		Nature Nature `json:"nature"`
		*alias
	}{Document, (*alias)(r)})
}

type VideoResult struct {
	Format      string                 `json:"format"`
	WidthPx     int                    `json:"width_px,omitempty"`
	HeightPx    int                    `json:"height_px,omitempty"`
	DurationS   float64                `json:"media_duration_seconds,omitempty"`
	ContentType string                 `json:"content_type"`
	Intrinsics  map[string]interface{} `json:"intrinsics,omitempty"`
}

func (r *VideoResult) Nature() Nature   { return Video }
func (r *VideoResult) MIMEType() string { return r.ContentType }

func (r *VideoResult) MarshalJSON() ([]byte, error) {
	type alias VideoResult
	return json.Marshal(&struct {
		Nature Nature `json:"nature"`
		*alias
	}{Video, (*alias)(r)})
}
