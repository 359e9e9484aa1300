package weapon

import "github.com/automoto/gunsync/shared/netconfig"

func (w *Weapon) setBurstCounter(v int32) {
	if w.burstCounter == v {
		return
	}
	w.burstCounter = v
	if w.isAuthority() {
		w.bridge.Replicate(netconfig.FieldBurstCounter, v)
	}
}

func (w *Weapon) setPendingReload(v bool) {
	if w.pendingReload == v {
		return
	}
	w.pendingReload = v
	if w.isAuthority() {
		w.bridge.Replicate(netconfig.FieldPendingReload, boolToField(v))
	}
}

func boolToField(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// ApplyReplicated assigns a field received from the authority and then runs
// its change reaction. The authority ignores replicated values.
func (w *Weapon) ApplyReplicated(field netconfig.Field, value int32) {
	if w.destroyed || w.isAuthority() {
		return
	}

	switch field {
	case netconfig.FieldCurrentAmmo:
		w.ammo.Total = int(value)
		w.ammoChanged(true)

	case netconfig.FieldCurrentAmmoInClip:
		w.ammo.InClip = int(value)
		w.ammoChanged(true)

	case netconfig.FieldBurstCounter:
		prev := w.burstCounter
		w.burstCounter = value
		if prev == value {
			return
		}
		if value > 0 {
			w.SimulateWeaponFire()
		} else {
			w.StopSimulatingWeaponFire()
		}

	case netconfig.FieldPendingReload:
		prev := w.pendingReload
		w.pendingReload = value != 0
		if prev == w.pendingReload {
			return
		}
		if w.pendingReload {
			w.StartReload(true)
		} else {
			w.endReload()
		}

	default:
		w.log.Warn().Stringer("field", field).Msg("unknown replicated field")
	}
}

// HandleServerRPC executes a call forwarded by the owning client.
func (w *Weapon) HandleServerRPC(rpc netconfig.RPC) {
	if w.destroyed {
		return
	}
	if !w.isAuthority() {
		w.log.Warn().Stringer("rpc", rpc).Msg("server call on replica")
		return
	}

	switch rpc {
	case netconfig.RPCServerStartFire:
		w.StartFire()
	case netconfig.RPCServerStopFire:
		w.StopFire()
	case netconfig.RPCServerStartReload:
		w.StartReload(false)
	case netconfig.RPCServerStopReload:
		w.StopReload()
	case netconfig.RPCServerHandleFiring:
		w.ServerHandleFiring()
	default:
		w.log.Warn().Stringer("rpc", rpc).Msg("unexpected server call")
	}
}

// HandleClientRPC executes a call sent by the authority to the owning client.
func (w *Weapon) HandleClientRPC(rpc netconfig.RPC) {
	if w.destroyed {
		return
	}
	switch rpc {
	case netconfig.RPCClientStartReload:
		w.StartReload(false)
	default:
		w.log.Warn().Stringer("rpc", rpc).Msg("unexpected client call")
	}
}
