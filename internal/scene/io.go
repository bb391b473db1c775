package scene

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed buildworks.yaml
var buildworks []byte

// Default returns the built-in BuildWorks scene
func Default() *Scene {
	s, err := Parse(buildworks)
	if err != nil {
		panic(fmt.Sprintf("built-in scene: %v", err))
	}
	return s
}

// Parse decodes a scene from YAML
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// Read reads a scene from a YAML file
func Read(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Write writes a scene to a YAML file
func Write(s *Scene, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
