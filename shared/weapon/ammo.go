package weapon

// Ammo is the ammo ledger of one weapon. Total counts every round the weapon
// holds, including the ones in the clip.
type Ammo struct {
	Total  int
	InClip int
}

// SeedAmmo returns the ledger of a freshly spawned weapon.
func SeedAmmo(cfg *Config) Ammo {
	if cfg.InitialClips <= 0 {
		return Ammo{}
	}
	return Ammo{
		Total:  cfg.AmmoPerClip * cfg.InitialClips,
		InClip: cfg.AmmoPerClip,
	}
}

// Give adds up to amount rounds without exceeding limit and returns how many
// were added.
func (a *Ammo) Give(amount, limit int) int {
	missing := limit - a.Total
	if missing < 0 {
		missing = 0
	}
	if amount > missing {
		amount = missing
	}
	if amount < 0 {
		amount = 0
	}
	a.Total += amount
	return amount
}

// Use consumes one round. Infinite ammo consumes nothing; infinite clip only
// drains the clip. Counts never drop below zero.
func (a *Ammo) Use(infiniteAmmo, infiniteClip bool) {
	if infiniteAmmo {
		return
	}
	if a.InClip > 0 {
		a.InClip--
	}
	if !infiniteClip && a.Total > 0 {
		a.Total--
	}
}

// CanReload reports whether the clip has room and spare rounds exist to fill it.
func (a Ammo) CanReload(perClip int, infiniteClip bool) bool {
	return a.InClip < perClip && (a.Total-a.InClip > 0 || infiniteClip)
}

// Reload moves spare rounds into the clip and returns how many were moved.
// An infinite clip is topped up from nothing and Total is raised to cover it.
func (a *Ammo) Reload(perClip int, infiniteClip bool) int {
	delta := min(perClip-a.InClip, a.Total-a.InClip)
	if infiniteClip {
		delta = perClip - a.InClip
	}
	if delta > 0 {
		a.InClip += delta
	} else {
		delta = 0
	}
	if infiniteClip {
		a.Total = max(a.InClip, a.Total)
	}
	return delta
}
