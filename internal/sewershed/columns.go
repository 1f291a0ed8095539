package sewershed

import "fmt"

// DissolveColumn is the census field whose values define dissolve groups.
const DissolveColumn = "State_Name"

// TotalPopulationField is the census total population count.
const TotalPopulationField = "P0010001"

// floatType is the SQL type of ratio columns.
const floatType = "real"

// Ratio maps a result column to the census count it divides by total population.
type Ratio struct {
	Result string
	Field  string
}

// Ratios are the demographic shares written to the output, in column order.
var Ratios = []Ratio{
	{"race_white", "P0010003"},
	{"race_black_or_african_american", "P0010004"},
	{"race_american_indian_or_alaska_native", "P0010005"},
	{"race_asian", "P0010006"},
	{"race_native_hawaiian_and_other_pacific_islander", "P0010007"},
	{"race_some_other_race", "P0010008"},
	{"hispanic_or_latino", "P0020002"},
	{"population_18_years_and_over", "P0030001"},
	{"housing_units_total", "H0010001"},
	{"housing_occupied", "H0010002"},
	{"housing_vacant", "H0010003"},
	{"quarters_total", "P0050001"},
	{"quarters_correctional_facilities_for_adults", "P0050003"},
	{"quarters_nursing_facilities", "P0050005"},
	{"quarters_college_university_student_housing", "P0050008"},
	{"quarters_military_quarters", "P0050009"},
}

// Columns returns the aggregate expressions and "name type" result columns:
// total_population as sum(P0010001), then each ratio as
// cast(sum(field) as real) / sum(P0010001).
func Columns() (aggregateExprs, resultColumns []string) {
	aggregateExprs = []string{fmt.Sprintf("sum(%s)", TotalPopulationField)}
	resultColumns = []string{"total_population integer"}
	for _, r := range Ratios {
		aggregateExprs = append(aggregateExprs,
			fmt.Sprintf("cast(sum(%s) as %s) / sum(%s)", r.Field, floatType, TotalPopulationField))
		resultColumns = append(resultColumns, fmt.Sprintf("%s %s", r.Result, floatType))
	}
	return aggregateExprs, resultColumns
}
