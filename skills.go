package server

import "math"

// MaxSkillLevel caps every progression axis.
const MaxSkillLevel = 99

type SkillType string

const (
	SkillAttack    SkillType = "attack"
	SkillStrength  SkillType = "strength"
	SkillDefence   SkillType = "defence"
	SkillHitpoints SkillType = "hitpoints"
)

// skillTypes lists every axis in the order XP awards are applied.
var skillTypes = []SkillType{SkillAttack, SkillStrength, SkillDefence, SkillHitpoints}

var xpTable = buildXPTable()

// buildXPTable precomputes the cumulative XP threshold for each level. Each
// level contributes floor(l + 300*2^(l/7)) integer points and the threshold
// is the running point total divided by 4; flooring per level before the
// division is what makes level 10 land on exactly 1154.
// Level 1 = 0 XP, level 2 = 83 XP, level 99 = 13,034,431 XP.
func buildXPTable() [MaxSkillLevel + 1]int64 {
	var table [MaxSkillLevel + 1]int64
	var points int64
	for level := 2; level <= MaxSkillLevel; level++ {
		l := float64(level - 1)
		points += int64(math.Floor(l + 300.0*math.Pow(2.0, l/7.0)))
		table[level] = points / 4
	}
	return table
}

// TotalXPForLevel returns the cumulative experience needed to hold level.
func TotalXPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > MaxSkillLevel {
		level = MaxSkillLevel
	}
	return xpTable[level]
}

// LevelForXP returns the greatest level whose threshold is at most xp.
func LevelForXP(xp int64) int {
	low, high := 1, MaxSkillLevel
	for low < high {
		mid := (low + high + 1) / 2
		if TotalXPForLevel(mid) <= xp {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return low
}

// Skill is one progression axis. Level is always LevelForXP(XP); both fields
// are mutated together through AddXP so they never desynchronize.
type Skill struct {
	Level int   `json:"level" msgpack:"level"`
	XP    int64 `json:"xp" msgpack:"xp"`
}

func NewSkill(level int) Skill {
	if level < 1 {
		level = 1
	}
	if level > MaxSkillLevel {
		level = MaxSkillLevel
	}
	return Skill{Level: level, XP: TotalXPForLevel(level)}
}

// AddXP grants experience and reports whether the skill leveled up.
func (s *Skill) AddXP(amount int64) bool {
	if amount <= 0 {
		return false
	}
	s.XP += amount
	newLevel := LevelForXP(s.XP)
	if newLevel > s.Level {
		s.Level = newLevel
		return true
	}
	return false
}

// skillFromXP rebuilds a skill from a raw experience total, deriving the
// level. Persistence stores only experience, so this is the load path.
func skillFromXP(xp int64) Skill {
	if xp < 0 {
		xp = 0
	}
	return Skill{Level: LevelForXP(xp), XP: xp}
}

// XPToNextLevel returns the remaining experience before the next level.
func (s Skill) XPToNextLevel() int64 {
	if s.Level >= MaxSkillLevel {
		return 0
	}
	return TotalXPForLevel(s.Level+1) - s.XP
}

// Skills holds the four combat axes of an actor.
type Skills struct {
	Attack    Skill `json:"attack" msgpack:"attack"`
	Strength  Skill `json:"strength" msgpack:"strength"`
	Defence   Skill `json:"defence" msgpack:"defence"`
	Hitpoints Skill `json:"hitpoints" msgpack:"hitpoints"`
}

// NewSkills returns fresh starting skills: combat axes at 1, Hitpoints at 10.
func NewSkills() Skills {
	return Skills{
		Attack:    NewSkill(1),
		Strength:  NewSkill(1),
		Defence:   NewSkill(1),
		Hitpoints: NewSkill(10),
	}
}

func (s *Skills) Get(t SkillType) *Skill {
	switch t {
	case SkillAttack:
		return &s.Attack
	case SkillStrength:
		return &s.Strength
	case SkillDefence:
		return &s.Defence
	case SkillHitpoints:
		return &s.Hitpoints
	default:
		return nil
	}
}

// CombatLevel derives the single summary number shown next to an actor's name.
func (s Skills) CombatLevel() int {
	base := float64(s.Defence.Level+s.Hitpoints.Level) / 4.0
	melee := float64(s.Attack.Level+s.Strength.Level) * 0.325
	return int(math.Floor(base + melee))
}

// TotalLevel sums every axis.
func (s Skills) TotalLevel() int {
	return s.Attack.Level + s.Strength.Level + s.Defence.Level + s.Hitpoints.Level
}
