package constants

// StoreLocation identifies the store a metrics document belongs to.
type StoreLocation string

const (
	AllLocations StoreLocation = "All Locations"
	Calgary      StoreLocation = "Calgary"
	Edmonton     StoreLocation = "Edmonton"
	Vancouver    StoreLocation = "Vancouver"
)

// StoreLocations lists every known store location.
var StoreLocations = []StoreLocation{AllLocations, Calgary, Edmonton, Vancouver}

// IsValid reports whether the location is one of the known store locations.
func (s StoreLocation) IsValid() bool {
	for _, l := range StoreLocations {
		if l == s {
			return true
		}
	}
	return false
}

// CalendarView is the granularity along which time is bucketed for charting.
type CalendarView string

const (
	CalendarViewDaily   CalendarView = "Daily"
	CalendarViewMonthly CalendarView = "Monthly"
	CalendarViewYearly  CalendarView = "Yearly"
)

// CalendarViews lists the views in the order charts are derived.
var CalendarViews = []CalendarView{CalendarViewDaily, CalendarViewMonthly, CalendarViewYearly}

// IsValid reports whether the view is Daily, Monthly or Yearly.
func (v CalendarView) IsValid() bool {
	switch v {
	case CalendarViewDaily, CalendarViewMonthly, CalendarViewYearly:
		return true
	default:
		return false
	}
}

// Months holds the canonical month names in calendar order.
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthNumber returns the 1-based number of a canonical month name, or 0 if unknown.
func MonthNumber(name string) int {
	for i, m := range Months {
		if m == name {
			return i + 1
		}
	}
	return 0
}

// Date layouts
const (
	ISODateLayout = "2006-01-02"
	YearLayout    = "2006"
	DayLayout     = "02"
)
