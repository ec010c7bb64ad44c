package service

// DefaultSeverity is assumed for categories the table does not know.
const DefaultSeverity = 3

// severityTable maps Philadelphia text_general_code categories to a 1 (low)
// .. 5 (high) severity. Loaded once, read-only.
var severityTable = map[string]int{
	"Homicide - Criminal":                    5,
	"Homicide - Gross Negligence":            5,
	"Rape":                                   5,
	"Robbery Firearm":                        5,
	"Aggravated Assault Firearm":             5,
	"Robbery No Firearm":                     4,
	"Aggravated Assault No Firearm":          4,
	"Arson":                                  4,
	"Weapon Violations":                      4,
	"Burglary Residential":                   3,
	"Burglary Non-Residential":               3,
	"Motor Vehicle Theft":                    3,
	"Narcotic / Drug Law Violations":         3,
	"Other Assaults":                         3,
	"Offenses Against Family and Children":   3,
	"Theft from Vehicle":                     2,
	"Thefts":                                 2,
	"Vandalism/Criminal Mischief":            2,
	"DRIVING UNDER THE INFLUENCE":            2,
	"Prostitution and Commercialized Vice":   2,
	"Embezzlement":                           2,
	"Fraud":                                  1,
	"Forgery and Counterfeiting":             1,
	"Public Drunkenness":                     1,
	"Disorderly Conduct":                     1,
	"Vagrancy/Loitering":                     1,
	"Gambling Violations":                    1,
	"Liquor Law Violations":                  1,
	"Recovered Stolen Motor Vehicle":         1,
	"All Other Offenses":                     3,
}

// SeverityFor looks up the default severity of a category; unknown
// categories get DefaultSeverity.
func SeverityFor(category string) int {
	if sev, ok := severityTable[category]; ok {
		return sev
	}
	return DefaultSeverity
}

// HighSeverity marks the threshold for the "high severity" XP bonus.
const HighSeverity = 4
