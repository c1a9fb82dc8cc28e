package ui

// Example is a ready-made input offered as a chip.
type Example struct {
	Name string
	Text string
}

// Examples are bound to the keys 1..3.
var Examples = []Example{
	{
		Name: "X code",
		Text: "AAC AAT ACC ATC ATT CAG CTC CTG GAA GAC GAG GAT GCC GGC GGT GTA GTC GTT TAC TTC",
	},
	{
		Name: "Permutations",
		Text: "AAC ACA CAA",
	},
	{
		Name: "Small circular",
		Text: "ACG TCA GAT",
	},
}

// exampleIndex maps a chip key ("1".."3") to an index into Examples.
func exampleIndex(k string) (int, bool) {
	if len(k) != 1 || k[0] < '1' {
		return 0, false
	}
	i := int(k[0] - '1')
	if i >= len(Examples) {
		return 0, false
	}
	return i, true
}
