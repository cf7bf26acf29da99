package models

import "strings"

// Stat names one of the five trainable attributes.
type Stat string

const (
	StatStrength  Stat = "str"
	StatIntellect Stat = "int"
	StatEndurance Stat = "end"
	StatCharisma  Stat = "cha"
	StatWisdom    Stat = "wis"
)

// AllStats lists the stats in display order.
func AllStats() []Stat {
	return []Stat{StatStrength, StatIntellect, StatEndurance, StatCharisma, StatWisdom}
}

// ParseStat accepts the exact lowercase stat key.
func ParseStat(s string) (Stat, bool) {
	stat := Stat(s)
	_, ok := statIncrements[stat]
	return stat, ok
}

// Label is the upper-case form shown to players and embedded in prompts.
func (s Stat) Label() string {
	return strings.ToUpper(string(s))
}

// Stats is the block of attribute scores stored on a user row.
type Stats struct {
	Str int `gorm:"column:strength;not null;default:0" json:"str"`
	Int int `gorm:"column:intellect;not null;default:0" json:"int"`
	End int `gorm:"column:endurance;not null;default:0" json:"end"`
	Cha int `gorm:"column:charisma;not null;default:0" json:"cha"`
	Wis int `gorm:"column:wisdom;not null;default:0" json:"wis"`
}

var statIncrements = map[Stat]func(*Stats){
	StatStrength:  func(s *Stats) { s.Str++ },
	StatIntellect: func(s *Stats) { s.Int++ },
	StatEndurance: func(s *Stats) { s.End++ },
	StatCharisma:  func(s *Stats) { s.Cha++ },
	StatWisdom:    func(s *Stats) { s.Wis++ },
}

var statReaders = map[Stat]func(Stats) int{
	StatStrength:  func(s Stats) int { return s.Str },
	StatIntellect: func(s Stats) int { return s.Int },
	StatEndurance: func(s Stats) int { return s.End },
	StatCharisma:  func(s Stats) int { return s.Cha },
	StatWisdom:    func(s Stats) int { return s.Wis },
}

// Increment raises the named stat by one. It reports false for unknown stats.
func (s *Stats) Increment(stat Stat) bool {
	inc, ok := statIncrements[stat]
	if !ok {
		return false
	}
	inc(s)
	return true
}

// Value returns the score for stat, or 0 when the stat is unknown.
func (s Stats) Value(stat Stat) int {
	read, ok := statReaders[stat]
	if !ok {
		return 0
	}
	return read(s)
}
