package printcheck

import "math"

const fineLayerHeight = 0.1

// Adhesion is a bed adhesion mode understood by common slicers.
type Adhesion string

const (
	AdhesionBrim Adhesion = "brim"
	AdhesionRaft Adhesion = "raft"
)

// Settings are slicer parameters suggested for a validated model.
type Settings struct {
	LayerHeight           float64  `json:"layer_height"`
	InfillPercentage      int      `json:"infill_percentage"`
	PrintSpeed            float64  `json:"print_speed"`
	SupportsNeeded        bool     `json:"supports_needed"`
	BedAdhesion           Adhesion `json:"bed_adhesion"`
	SpecialConsiderations []string `json:"special_considerations"`
}

// DefaultSettings are used when a report has no relevant warnings.
func DefaultSettings() Settings {
	return Settings{
		LayerHeight:           0.2,
		InfillPercentage:      20,
		PrintSpeed:            50,
		BedAdhesion:           AdhesionBrim,
		SpecialConsiderations: []string{},
	}
}

func (s *Settings) consider(msg string) {
	for _, c := range s.SpecialConsiderations {
		if c == msg {
			return
		}
	}
	s.SpecialConsiderations = append(s.SpecialConsiderations, msg)
}

// SuggestSettings derives slicer settings from the warning causes in r.
// The layer height starts at the one r was validated for, if set.
func SuggestSettings(r *Report) Settings {
	s := DefaultSettings()
	if r == nil {
		return s
	}
	if r.LayerHeight > 0 {
		s.LayerHeight = r.LayerHeight
	}

	for _, w := range r.Warnings {
		switch w.Cause {
		case CauseOverhang:
			s.SupportsNeeded = true
			s.consider("supports required for overhangs")
		case CauseUndersize, CauseSmallFeature:
			s.LayerHeight = math.Min(s.LayerHeight, fineLayerHeight)
			s.PrintSpeed = 30
			s.consider("use high quality settings for fine detail")
		case CauseOversize:
			s.BedAdhesion = AdhesionRaft
			s.consider("use a raft for better bed adhesion")
		}
	}

	return s
}
