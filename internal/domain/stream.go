package domain

import "strings"

// CustomStream is a user-added lofi source.
type CustomStream struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	VideoID string `json:"videoId"`
	Gif     string `json:"gif"`
}

// Stream is an addressable entry of the lofi playlist.
type Stream struct {
	ID      string
	Name    string
	Channel string
	VideoID string
	Gif     string
	Custom  bool
}

// BuiltinStreams is the fixed lofi catalog.
var BuiltinStreams = []Stream{
	{ID: "lofi-hip-hop", Name: "Lofi Hip Hop", Channel: "Chillhop Music", VideoID: "qH3fETPsqXU", Gif: "lofi.gif"},
	{ID: "lofi-girl", Name: "Lofi Girl", Channel: "Lofi Girl", VideoID: "jfKfPfyJRdk", Gif: "lofi-girl.gif"},
}

// NewCustomStream builds a custom stream from a video id or URL.
func NewCustomStream(name, video, gif string) (CustomStream, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CustomStream{}, ErrEmptyTitle
	}
	if gif == "" {
		gif = "lofi.gif"
	}
	return CustomStream{ID: generateID(), Name: name, VideoID: ExtractVideoID(video), Gif: gif}, nil
}

// ExtractVideoID accepts either a bare id or a watch/short URL.
func ExtractVideoID(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "v="); i >= 0 {
		id := s[i+2:]
		if j := strings.IndexAny(id, "&#"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	if i := strings.Index(s, "youtu.be/"); i >= 0 {
		id := s[i+len("youtu.be/"):]
		if j := strings.IndexAny(id, "?&#"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	return s
}

// StreamFromCustom adapts a custom stream into the playlist form.
func StreamFromCustom(c CustomStream) Stream {
	return Stream{ID: c.ID, Name: c.Name, Channel: "Custom", VideoID: c.VideoID, Gif: c.Gif, Custom: true}
}

// StreamURL returns the playable URL of a stream.
func (s Stream) StreamURL() string {
	return "https://www.youtube.com/watch?v=" + s.VideoID
}

// AmbientSound is a looping ambience source.
type AmbientSound struct {
	ID   string
	Name string
	Path string
}

// AmbientSounds is the built-in ambience catalog.
var AmbientSounds = []AmbientSound{
	{ID: "rain", Name: "Rain", Path: "rain.mp3"},
	{ID: "forest", Name: "Forest", Path: "forest.mp3"},
}

// Default playback volumes, 0..100.
const (
	DefaultAmbientVolume = 30
	DefaultStreamVolume  = 50
)

// AmbientSettings is the persisted part of the ambience player.
type AmbientSettings struct {
	Volumes map[string]int  `json:"volumes"`
	Enabled map[string]bool `json:"enabled"`
}

// LofiSettings is the persisted part of the stream player.
type LofiSettings struct {
	Volume      int `json:"volume"`
	StreamIndex int `json:"streamIndex"`
}

// PlaybackSettings groups the persisted player settings.
type PlaybackSettings struct {
	Ambient AmbientSettings `json:"ambient"`
	Lofi    LofiSettings    `json:"lofi"`
}

// DefaultPlaybackSettings returns every sound off at default volume.
func DefaultPlaybackSettings() PlaybackSettings {
	ps := PlaybackSettings{
		Ambient: AmbientSettings{Volumes: map[string]int{}, Enabled: map[string]bool{}},
		Lofi:    LofiSettings{Volume: DefaultStreamVolume},
	}
	for _, s := range AmbientSounds {
		ps.Ambient.Volumes[s.ID] = DefaultAmbientVolume
		ps.Ambient.Enabled[s.ID] = false
	}
	return ps
}

// ClampVolume bounds v to 0..100.
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
