package renderer

import (
	"strings"

	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/scene"
)

const baseTransform = "transform"

// layer is one picture of a section and the parameters that move it
type layer struct {
	name      string // library key
	transform *effects.Transform
	opacity   string // bundle parameter, "" for fully opaque
	filter    string // filter combinator, "" for none
}

// sectionLayers lists the pictures of a section in paint order. A section
// without a base transform still paints its own picture unmoved.
func sectionLayers(p *scene.Plan) []layer {
	var out []layer
	hasBase := false
	for _, c := range p.Effects.Derived {
		t, ok := c.(effects.Transform)
		if !ok {
			continue
		}
		name := t.Name()
		l := layer{transform: &t}
		switch {
		case name == baseTransform:
			hasBase = true
			l.name = p.ID
			l.filter = "filter"
		case strings.HasPrefix(name, baseTransform+"."):
			item := strings.TrimPrefix(name, baseTransform+".")
			l.name = p.ID + "." + item
			l.opacity = "opacity." + item
			l.filter = "filter." + item
		default:
			l.name = p.ID + "." + name
			l.opacity = name + "Opacity"
		}
		out = append(out, l)
	}
	if !hasBase {
		out = append([]layer{{name: p.ID, filter: "filter"}}, out...)
	}
	return out
}

// Layers returns every library key the program paints, in document order
func Layers(prog *scene.Program) []string {
	var names []string
	for _, p := range prog.Sections {
		for _, l := range sectionLayers(p) {
			names = append(names, l.name)
		}
	}
	return names
}
