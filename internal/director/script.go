package director

// Script is a timed sequence of scroll targets for recording a page
type Script struct {
	Version   string     `yaml:"version"`
	Scene     string     `yaml:"scene"`
	Duration  float64    `yaml:"duration"` // Total duration in seconds
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe starts a scroll toward ScrollY at Time
type Keyframe struct {
	Time    float64 `yaml:"time"`  // Time offset in seconds
	Focus   string  `yaml:"focus"` // Section or item in focus
	ScrollY float64 `yaml:"scroll_y"`
	// Immediate jumps instead of easing
	Immediate bool `yaml:"immediate,omitempty"`
}

// Due returns the keyframes whose time falls in (from, to]
func (s *Script) Due(from, to float64) []Keyframe {
	var out []Keyframe
	for _, kf := range s.Keyframes {
		if kf.Time > from && kf.Time <= to {
			out = append(out, kf)
		}
	}
	return out
}
