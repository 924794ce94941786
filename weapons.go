package server

type WeaponClass string

const (
	WeaponClassMelee  WeaponClass = "melee"
	WeaponClassRanged WeaponClass = "ranged"
)

// Weapon carries the combat stats an equipped item contributes. Range is in
// tiles along the facing line; melee weapons always have range 1.
type Weapon struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Class         WeaponClass `json:"class"`
	Range         int         `json:"range"`
	AttackBonus   int         `json:"attackBonus"`
	StrengthBonus int         `json:"strengthBonus"`
	DefenceBonus  int         `json:"defenceBonus"`
}

// WeaponUnarmed is the fallback used when an actor's weapon reference cannot
// be resolved. Attacks never fail on a missing catalog entry.
var WeaponUnarmed = Weapon{
	ID:    "unarmed",
	Name:  "Fists",
	Class: WeaponClassMelee,
	Range: 1,
}

var weaponCatalog = map[string]Weapon{
	"bronze_dagger": {
		ID: "bronze_dagger", Name: "Bronze Dagger", Class: WeaponClassMelee,
		Range: 1, AttackBonus: 4, StrengthBonus: 3,
	},
	"iron_sword": {
		ID: "iron_sword", Name: "Iron Sword", Class: WeaponClassMelee,
		Range: 1, AttackBonus: 10, StrengthBonus: 9, DefenceBonus: 2,
	},
	"steel_mace": {
		ID: "steel_mace", Name: "Steel Mace", Class: WeaponClassMelee,
		Range: 1, AttackBonus: 16, StrengthBonus: 14,
	},
	"shortbow": {
		ID: "shortbow", Name: "Shortbow", Class: WeaponClassRanged,
		Range: 5, AttackBonus: 8, StrengthBonus: 5,
	},
	"oak_longbow": {
		ID: "oak_longbow", Name: "Oak Longbow", Class: WeaponClassRanged,
		Range: 8, AttackBonus: 14, StrengthBonus: 9,
	},
}

// weaponFor resolves a weapon reference, falling back to unarmed stats for an
// empty or unknown ID.
func weaponFor(id string) Weapon {
	if id == "" {
		return WeaponUnarmed
	}
	if weapon, ok := weaponCatalog[id]; ok {
		return weapon
	}
	return WeaponUnarmed
}
