package entity

// Alias maps a canonical entity name to the lowercase spellings that refer to it.
type Alias struct {
	Canonical string
	Aliases   []string
}

// DefaultAliases is evaluated in slice order; earlier entries are reported first.
var DefaultAliases = []Alias{
	{Canonical: "Tesla", Aliases: []string{"tesla"}},
	{Canonical: "Volvo Cars", Aliases: []string{"volvo", "volvo cars"}},
	{Canonical: "Polestar", Aliases: []string{"polestar"}},
	{Canonical: "Volkswagen", Aliases: []string{"volkswagen", "vw"}},
	{Canonical: "BMW", Aliases: []string{"bmw"}},
	{Canonical: "Mercedes-Benz", Aliases: []string{"mercedes", "mercedes-benz", "daimler"}},
	{Canonical: "Toyota", Aliases: []string{"toyota"}},
	{Canonical: "Honda", Aliases: []string{"honda"}},
	{Canonical: "Nissan", Aliases: []string{"nissan"}},
	{Canonical: "Hyundai", Aliases: []string{"hyundai"}},
	{Canonical: "Kia", Aliases: []string{"kia"}},
	{Canonical: "Stellantis", Aliases: []string{"stellantis", "fiat", "peugeot", "citroen", "jeep", "ram"}},
	{Canonical: "Ford", Aliases: []string{"ford"}},
	{Canonical: "General Motors", Aliases: []string{"gm", "general motors", "chevrolet", "cadillac", "buick"}},
	{Canonical: "BYD", Aliases: []string{"byd"}},
	{Canonical: "Geely", Aliases: []string{"geely"}},
	{Canonical: "SAIC", Aliases: []string{"saic", "mg motor", "mg"}},
	{Canonical: "Renault", Aliases: []string{"renault"}},
	{Canonical: "NVIDIA", Aliases: []string{"nvidia"}},
	{Canonical: "Qualcomm", Aliases: []string{"qualcomm"}},
	{Canonical: "Mobileye", Aliases: []string{"mobileye"}},
	{Canonical: "Bosch", Aliases: []string{"bosch"}},
	{Canonical: "Continental", Aliases: []string{"continental", "conti"}},
	{Canonical: "ZF", Aliases: []string{"zf"}},
	{Canonical: "Aptiv", Aliases: []string{"aptiv"}},
	{Canonical: "Magna", Aliases: []string{"magna", "magna international"}},
	{Canonical: "CATL", Aliases: []string{"catl", "contemporary amperex"}},
	{Canonical: "Panasonic", Aliases: []string{"panasonic"}},
	{Canonical: "LG Energy Solution", Aliases: []string{"lg energy solution", "lg es", "lg chem"}},
	{Canonical: "Samsung SDI", Aliases: []string{"samsung sdi"}},
	{Canonical: "Northvolt", Aliases: []string{"northvolt"}},
	{Canonical: "Rivian", Aliases: []string{"rivian"}},
	{Canonical: "Lucid", Aliases: []string{"lucid", "lucid motors"}},
	{Canonical: "XPeng", Aliases: []string{"xpeng"}},
	{Canonical: "NIO", Aliases: []string{"nio"}},
}

// DefaultExclusions are never reported, whichever path produced them.
var DefaultExclusions = []string{
	// investors and media
	"BlackRock", "Mubadala", "Goldman Sachs", "Morgan Stanley", "JPMorgan", "JP Morgan",
	"Sequoia", "Andreessen Horowitz", "a16z", "SoftBank", "Tiger Global",
	"TechCrunch", "Reuters", "Bloomberg",
	// places
	"San Francisco", "Singapore", "US", "UK", "EU",
	// generic words
	"Electricity", "Scientific", "Clearly", "She", "New", "First", "Travel",
	// units and abbreviations
	"CO2", "EV", "AI",
	"IEA",
}

var (
	startupKeywords = []string{
		"startup", "raises", "funding", "series", "acquires", "acquired",
		"launches", "secures", "partners", "merger", "valuation",
	}

	fallbackBlacklist = setOf(
		"The", "A", "An", "And", "Or", "But", "EU", "US", "UK",
		"EV", "AI", "CEO", "CFO", "IPO", "VC", "VCs", "Series",
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
		"Mubadala", "BlackRock",
		"Smart", "First", "New", "Latest", "Travel", "Remote", "Equity", "Crew", "Podcast",
	)

	genericSingleWords = setOf("smart", "new", "first", "latest", "travel", "remote")

	knownManufacturers = setOf(
		"Tesla", "Toyota", "Ford", "Volkswagen", "BMW", "BYD",
		"Hyundai", "Kia", "NIO", "XPeng", "CATL",
	)
)

func setOf(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
