package config

// DefaultBuiltinLayout names the preset used when tags.layouts is empty.
const DefaultBuiltinLayout = "tiling"

// BuiltinLayouts returns the built-in layout presets.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional presets in their config file.
func BuiltinLayouts() map[string]LayoutConfig {
	return map[string]LayoutConfig{
		"tiling": {
			Type:        LayoutTiling,
			MasterRatio: 0.55,
			MasterCount: 1,
		},
		"wide": {
			Type:        LayoutTiling,
			MasterRatio: 0.7,
			MasterCount: 1,
		},
		"floating": {
			Type:        LayoutFloating,
			MasterRatio: 0.5,
			MasterCount: 1,
		},
		"monocle": {
			Type:        LayoutMonocle,
			MasterRatio: 0.5,
			MasterCount: 1,
		},
	}
}
