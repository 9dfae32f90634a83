package coordinator

import (
	"strings"

	"aghi-dashboard/internal/types"
)

// InitialState is where every session starts.
func InitialState() types.NavigationState {
	return types.NavigationState{
		Persona:        types.PersonaNational,
		SelectedRegion: types.National,
		MapLevel:       types.LevelState,
	}
}

// DeriveMapLevel: the national view maps states, a selected state maps its
// districts.
func DeriveMapLevel(region string) types.MapLevel {
	if region == types.National {
		return types.LevelState
	}
	return types.LevelDistrict
}

// Breadcrumb renders the navigation trail for region.
func Breadcrumb(region string) string {
	if region == types.National {
		return "India"
	}
	return "India / " + region
}

// NormalizeRegion maps blank input and any casing of "national" to National.
func NormalizeRegion(region string) string {
	region = strings.TrimSpace(region)
	if region == "" || strings.EqualFold(region, types.National) {
		return types.National
	}
	return region
}

// consistent reports whether the map level matches the selected region.
func consistent(s types.NavigationState) bool {
	return s.MapLevel == DeriveMapLevel(s.SelectedRegion)
}

func withRegion(s types.NavigationState, region string) types.NavigationState {
	s.SelectedRegion = NormalizeRegion(region)
	s.MapLevel = DeriveMapLevel(s.SelectedRegion)
	return s
}

func withPersona(s types.NavigationState, p types.Persona) types.NavigationState {
	s.Persona = p
	return s
}
