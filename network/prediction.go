package network

import (
	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netconfig"
)

const predictionBufferSize = 64

// ShotRecord stores what one predicted HandleFiring took from the ledger.
type ShotRecord struct {
	Seq   uint32
	Clip  int // rounds taken from the clip
	Total int // rounds taken from the total
}

// AmmoSource is the locally predicted ledger of one weapon.
type AmmoSource interface {
	CurrentAmmo() int
	CurrentAmmoInClip() int
}

// AmmoPrediction is a ring buffer of recent predicted shots for one owned
// weapon. Ammo patches from the authority are reconciled against the shots
// it has not acknowledged yet, so the owner never sees its ammo jump back up.
type AmmoPrediction struct {
	history [predictionBufferSize]ShotRecord
	nextSeq uint32

	src          AmmoSource
	inClip       int // ledger as last observed, after prediction or reconciliation
	total        int
	mispredicted int
}

func NewAmmoPrediction(src AmmoSource) *AmmoPrediction {
	return &AmmoPrediction{
		nextSeq: 1,
		src:     src,
		inClip:  src.CurrentAmmoInClip(),
		total:   src.CurrentAmmo(),
	}
}

// Store records the shot numbered seq. It runs right after the weapon's local
// HandleFiring, so the ledger drop since the last observation is what the
// shot consumed (nothing when the trigger pull was dry or redirected).
func (p *AmmoPrediction) Store(seq uint32) {
	inClip, total := p.src.CurrentAmmoInClip(), p.src.CurrentAmmo()
	p.history[seq%predictionBufferSize] = ShotRecord{
		Seq:   seq,
		Clip:  max(0, p.inClip-inClip),
		Total: max(0, p.total-total),
	}
	p.inClip, p.total = inClip, total
	p.nextSeq = seq + 1
}

// Get retrieves a stored record by sequence number. Returns false if not found
// or if the slot has been overwritten.
func (p *AmmoPrediction) Get(seq uint32) (ShotRecord, bool) {
	record := p.history[seq%predictionBufferSize]
	if record.Seq != seq {
		return ShotRecord{}, false
	}
	return record, true
}

// NextSeq returns the next expected sequence number.
func (p *AmmoPrediction) NextSeq() uint32 {
	return p.nextSeq
}

// GetUnacknowledged returns all stored shots with sequence numbers greater
// than lastAcked and less than nextSeq.
func (p *AmmoPrediction) GetUnacknowledged(lastAcked uint32) []ShotRecord {
	var results []ShotRecord
	for seq := lastAcked + 1; seq < p.nextSeq; seq++ {
		if record, ok := p.Get(seq); ok {
			results = append(results, record)
		}
	}
	return results
}

// Reconcile returns the value to apply for an owner ammo patch: the
// authority's value minus what the unacknowledged shots consumed.
func (p *AmmoPrediction) Reconcile(patch messages.WeaponPatch) int32 {
	pending := p.GetUnacknowledged(patch.Ack)

	switch patch.Field {
	case netconfig.FieldCurrentAmmoInClip:
		v := int(patch.Value)
		for _, r := range pending {
			v -= r.Clip
		}
		v = max(v, 0)
		if v != p.inClip {
			p.mispredicted++
		}
		p.inClip = v
		return int32(v)

	case netconfig.FieldCurrentAmmo:
		v := int(patch.Value)
		for _, r := range pending {
			v -= r.Total
		}
		v = max(v, 0)
		if v != p.total {
			p.mispredicted++
		}
		p.total = v
		return int32(v)
	}
	return patch.Value
}

// Mispredictions counts reconciled values that differed from the prediction.
func (p *AmmoPrediction) Mispredictions() int {
	return p.mispredicted
}
