package config

import "github.com/lakitu/middledrag/types"

var modifierNames = map[string]types.ModifierMask{
	"":        0,
	"shift":   types.ModifierShift,
	"control": types.ModifierControl,
	"option":  types.ModifierOption,
	"command": types.ModifierCommand,
	"fn":      types.ModifierFn,
}

// ModifierMask translates the RequiredModifier name into a key mask.
// Unknown names map to zero (no modifier required); Clamp already
// rejects them.
func (c Config) ModifierMask() types.ModifierMask {
	return modifierNames[c.RequiredModifier]
}
