package domain

// The plan catalog and coverage list are marketing content maintained in
// code, not in the hosted backend.

type Package struct {
	Name         string `json:"name"`
	SpeedMbps    int    `json:"speed_mbps"`
	Price        int    `json:"price"`
	PriceWithVAT int    `json:"price_with_vat"`
	Popular      bool   `json:"popular,omitempty"`
	Gaming       bool   `json:"gaming,omitempty"`
	Enterprise   bool   `json:"enterprise,omitempty"`
}

var Packages = []Package{
	{Name: "Home Connect", SpeedMbps: 25, Price: 500, PriceWithVAT: 525},
	{Name: "Starter Plus", SpeedMbps: 40, Price: 700, PriceWithVAT: 735},
	{Name: "Power Stream", SpeedMbps: 55, Price: 800, PriceWithVAT: 840},
	{Name: "Family Fast", SpeedMbps: 70, Price: 1000, PriceWithVAT: 1050, Popular: true},
	{Name: "Ultra Home", SpeedMbps: 85, Price: 1200, PriceWithVAT: 1260},
	{Name: "Gaming Pro", SpeedMbps: 100, Price: 1400, PriceWithVAT: 1470, Gaming: true},
	{Name: "Lightning Max", SpeedMbps: 120, Price: 1600, PriceWithVAT: 1680},
	{Name: "Extreme Speed", SpeedMbps: 150, Price: 1800, PriceWithVAT: 1890},
	{Name: "Enterprise Max", SpeedMbps: 200, Price: 2400, PriceWithVAT: 2520, Enterprise: true},
}

type CoverageArea struct {
	District string   `json:"district"`
	Areas    []string `json:"areas"`
}

var Coverage = []CoverageArea{
	{
		District: "Bogura",
		Areas: []string{
			"Sadar", "Sherpur Road", "Jaleshwaritola", "Sutrapur",
			"Colony", "Malotinagar", "Khandar", "Matidali",
		},
	},
}

// ValidPackageName reports whether name matches a catalog entry.
func ValidPackageName(name string) bool {
	for _, p := range Packages {
		if p.Name == name {
			return true
		}
	}
	return false
}
