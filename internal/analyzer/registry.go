package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	case "center", "none":
		return Centered{}, nil
	default:
		return nil, fmt.Errorf("unknown focus detector %q", variant)
	}
}
