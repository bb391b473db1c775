package scene

import "time"

// Scene describes a scroll-driven page: its sections in document order and
// the parameter tracks each one animates.
type Scene struct {
	Version  string    `yaml:"version"`
	Name     string    `yaml:"name"`
	Viewport Viewport  `yaml:"viewport"`
	Bias     *float64  `yaml:"bias,omitempty"` // active-index bias, default 0.15
	Scroll   Scroll    `yaml:"scroll"`
	Nav      Nav       `yaml:"nav"`
	Sections []Section `yaml:"sections"`
}

// Viewport is the nominal preview size in pixels
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Scroll configures inertial scrolling
type Scroll struct {
	Duration   time.Duration `yaml:"duration"`
	Multiplier float64       `yaml:"multiplier"`
}

// Nav configures the navigation bar
type Nav struct {
	Threshold float64 `yaml:"threshold"` // scrollY past which the bar is "scrolled"
	Links     []Link  `yaml:"links"`
	CTA       Link    `yaml:"cta"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Section is one page region with its tracks
type Section struct {
	ID string `yaml:"id"`
	// Height in viewport units. Sticky sections default to one viewport per item.
	Height float64 `yaml:"height,omitempty"`
	// Region shares the region of another section; "page" spans the whole document.
	// Aliased sections take no space in the layout.
	Region string   `yaml:"region,omitempty"`
	Offset []string `yaml:"offset"` // [start, end], e.g. ["start end", "end start"]
	Spring *Spring  `yaml:"spring,omitempty"`

	Items  int      `yaml:"items,omitempty"`
	Labels []string `yaml:"labels,omitempty"`

	Tracks  []Track   `yaml:"tracks,omitempty"`
	Derived []Derived `yaml:"derived,omitempty"`
	Frames  *Frames   `yaml:"frames,omitempty"`

	Grades          []Grade       `yaml:"grades,omitempty"`
	GradeTransition time.Duration `yaml:"grade_transition,omitempty"`

	Carousel  *Carousel  `yaml:"carousel,omitempty"`
	Accordion *Accordion `yaml:"accordion,omitempty"`
	Reveals   []Reveal   `yaml:"reveals,omitempty"`
}

// Spring enables the smooth signal for a section
type Spring struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

// Track maps a progress signal through keyframes. Reduced outputs share the
// inputs and replace Output under reduced motion.
type Track struct {
	Name    string    `yaml:"name"`
	Signal  string    `yaml:"signal,omitempty"` // raw (default), smooth, page
	Input   []float64 `yaml:"input"`
	Output  []string  `yaml:"output"`
	Reduced []string  `yaml:"reduced,omitempty"`
	Motion  bool      `yaml:"motion,omitempty"`
}

// Derived combines evaluated tracks into one formatted output
type Derived struct {
	Name   string       `yaml:"name"`
	Kind   string       `yaml:"kind"` // filter or transform
	Parts  []FilterPart `yaml:"parts,omitempty"`
	X      string       `yaml:"x,omitempty"`
	Y      string       `yaml:"y,omitempty"`
	Scale  string       `yaml:"scale,omitempty"`
	Rotate string       `yaml:"rotate,omitempty"`
}

type FilterPart struct {
	Func  string `yaml:"func"`
	Param string `yaml:"param"`
}

// Frames are per-item tracks of a sticky section. Inputs are relative to the
// item index and read the page signal; item i gets tracks named "<name>.<i>".
type Frames struct {
	Tracks  []Track   `yaml:"tracks"`
	Derived []Derived `yaml:"derived,omitempty"`
}

// Grade is the colour treatment of one item
type Grade struct {
	Tint  string  `yaml:"tint"`
	Lift  float64 `yaml:"lift"`
	Crush float64 `yaml:"crush"`
}

// Carousel auto-advances through items
type Carousel struct {
	Items    int           `yaml:"items"`
	Interval time.Duration `yaml:"interval"`
}

// Accordion keeps at most one row open
type Accordion struct {
	Items int `yaml:"items"`
	Open  int `yaml:"open"`
}

// Reveal is an element that fades in when it scrolls into view. At and
// Height are in viewport units relative to the section top.
type Reveal struct {
	ID     string        `yaml:"id"`
	At     float64       `yaml:"at"`
	Height float64       `yaml:"height"`
	Delay  time.Duration `yaml:"delay,omitempty"`
}
