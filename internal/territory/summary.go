package territory

// Summary is the report form of a classification result, shaped for JSON
// output and title decoration.
type Summary struct {
	TerritoryType      string     `json:"territory_type"`
	PolygonCount       int        `json:"polygon_count"`
	MainAreaPercentage float64    `json:"main_area_percentage"`
	HasExclaves        bool       `json:"has_exclaves"`
	IsIslandNation     bool       `json:"is_island_nation"`
	MaxDistance        float64    `json:"max_distance"`
	Territories        []Fragment `json:"territories"`
}

// Summarize converts a classification result into its report form.
func Summarize(res *Result) Summary {
	return Summary{
		TerritoryType:      res.GeometryType.String(),
		PolygonCount:       res.FragmentCount,
		MainAreaPercentage: res.MainFragmentPercentage,
		HasExclaves:        res.GeometryType == TypeHasExclave,
		IsIslandNation:     res.GeometryType == TypeIslandNation,
		MaxDistance:        res.MaxCentroidDistance,
		Territories:        res.Fragments,
	}
}

// TitleSuffix returns the parenthesized title decoration for a territory
// type, e.g. "(With Exclaves)".
func TitleSuffix(t GeometryType) string {
	switch t {
	case TypeContinuous:
		return "(Continuous Territory)"
	case TypeIslandNation:
		return "(Island Nation)"
	case TypeHasExclave:
		return "(With Exclaves)"
	default:
		return ""
	}
}
