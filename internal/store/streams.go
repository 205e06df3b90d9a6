package store

import "github.com/xvierd/dailo/internal/domain"

// AddCustomStream appends a user stream to the playlist.
func (s *Store) AddCustomStream(name, video, gif string) (domain.CustomStream, error) {
	cs, err := domain.NewCustomStream(name, video, gif)
	if err != nil {
		return domain.CustomStream{}, err
	}
	s.update(func(st *domain.State) bool {
		st.CustomStreams = append(st.CustomStreams, cs)
		return true
	})
	return cs, nil
}

// DeleteCustomStream removes a user stream.
func (s *Store) DeleteCustomStream(id string) bool {
	return s.update(func(st *domain.State) bool {
		var ok bool
		st.CustomStreams, ok = without(st.CustomStreams, func(c domain.CustomStream) bool { return c.ID == id })
		return ok
	})
}

// SetAmbientSettings records the ambience volumes and enabled set.
func (s *Store) SetAmbientSettings(a domain.AmbientSettings) {
	s.update(func(st *domain.State) bool {
		if st.Playback.Ambient.Volumes == nil || st.Playback.Ambient.Enabled == nil {
			st.Playback.Ambient = domain.DefaultPlaybackSettings().Ambient
		}
		for id, v := range a.Volumes {
			st.Playback.Ambient.Volumes[id] = domain.ClampVolume(v)
		}
		for id, on := range a.Enabled {
			st.Playback.Ambient.Enabled[id] = on
		}
		return true
	})
}

// SetLofiSettings records the stream volume and selected index.
func (s *Store) SetLofiSettings(l domain.LofiSettings) {
	s.update(func(st *domain.State) bool {
		l.Volume = domain.ClampVolume(l.Volume)
		if l.StreamIndex < 0 {
			l.StreamIndex = 0
		}
		if st.Playback.Lofi == l {
			return false
		}
		st.Playback.Lofi = l
		return true
	})
}
