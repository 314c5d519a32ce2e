package domain

// Product constants. These are game rules, not configuration: the
// catalog is a closed set of six instruments and the UI enumerates
// them in fixed-size layouts.
const (
	// InitialPool is the tradable float each instrument starts with.
	InitialPool int64 = 200_000

	// StartingCash is every player's opening balance, in paise (₹1,000,000).
	StartingCash int64 = 100_000_000

	// RightsPrice is the fixed subscription price for a rights issue,
	// in paise (₹10), regardless of market price.
	RightsPrice int64 = 1_000

	// PriceFloor is the lowest a price can be driven, in paise (₹1).
	PriceFloor int64 = 100

	// MaxPlayers is the room capacity, banker included.
	MaxPlayers = 6
)

// Instrument is one entry in the fixed tradable catalog.
type Instrument struct {
	Name         string
	InitialPrice int64 // paise
}

// Catalog is the fixed set of six instruments, in board order.
var Catalog = []Instrument{
	{Name: "WOCKHARDT", InitialPrice: 2_000},
	{Name: "HDFC", InitialPrice: 2_500},
	{Name: "TISCO", InitialPrice: 4_000},
	{Name: "ONGC", InitialPrice: 5_500},
	{Name: "RELIANCE", InitialPrice: 7_500},
	{Name: "INFOSYS", InitialPrice: 8_000},
}

// InCatalog returns true if name is one of the six catalog instruments.
func InCatalog(name string) bool {
	for _, inst := range Catalog {
		if inst.Name == name {
			return true
		}
	}
	return false
}
