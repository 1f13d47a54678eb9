package ship

import "math"

// MaxTemperature is the heat ceiling of every weapon.
const MaxTemperature = 100.0

// precisionPerLevel is the precision bonus granted per WeaponMod level.
const precisionPerLevel = 0.05

// Weapon is one weapon slot of a ship.
type Weapon struct {
	Name        string
	Range       float64 // in cells, compared against Euclidean distance
	Precision   float64 // hit probability before bonuses
	Reliability float64 // 1 - jam probability
	RateOfFire  int
	Energy      EnergyType
	DamageMin   int
	DamageMax   int

	Temperature    float64
	Jammed         bool
	PrecisionBonus float64
}

// HeatPerShot is the temperature added by each shot.
func (w *Weapon) HeatPerShot() float64 {
	return MaxTemperature / float64(w.RateOfFire+1)
}

// CooldownPerTurn is the temperature shed at each turn reset.
func (w *Weapon) CooldownPerTurn() float64 {
	return w.HeatPerShot() / 2
}

// Overheated reports whether one more shot would push the weapon past
// MaxTemperature.
func (w *Weapon) Overheated() bool {
	return w.Temperature+w.HeatPerShot() > MaxTemperature
}

// Operational reports whether the weapon can fire right now.
func (w *Weapon) Operational() bool {
	return !w.Jammed && !w.Overheated()
}

// EffectivePrecision is the hit probability including mod bonuses, in [0,1].
func (w *Weapon) EffectivePrecision() float64 {
	return math.Max(0, math.Min(1, w.Precision+w.PrecisionBonus))
}

// Heat adds one shot's worth of temperature.
func (w *Weapon) Heat() {
	w.Temperature = math.Min(MaxTemperature, w.Temperature+w.HeatPerShot())
}

// Cool sheds one turn of cooldown; temperature never drops below zero.
func (w *Weapon) Cool() {
	w.Temperature = math.Max(0, w.Temperature-w.CooldownPerTurn())
}

// Clone returns a fresh copy with no heat, jam or bonus.
func (w *Weapon) Clone() *Weapon {
	c := *w
	c.Temperature = 0
	c.Jammed = false
	c.PrecisionBonus = 0
	return &c
}
