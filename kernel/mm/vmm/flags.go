package vmm

// MapFlag describes the intent of a mapping request. Callers compose these
// flags; the vmm owns their translation into hardware descriptor bits.
type MapFlag uint32

const (
	// FlagRead requests read access to the mapped region.
	FlagRead MapFlag = 1 << iota

	// FlagWrite requests write access. Its absence makes the mapping
	// read-only.
	FlagWrite

	// FlagExec requests execute access. Its absence marks the mapping
	// execute-never for the privilege level implied by FlagUser.
	FlagExec

	// FlagUser makes the mapping accessible to unprivileged code.
	FlagUser

	// FlagDevice marks the region as device memory: uncacheable and
	// non-shareable.
	FlagDevice
)

// pteFlagsFor translates a caller's mapping intent into the hardware
// descriptor bit pattern for a level 3 page entry.
func pteFlagsFor(flags MapFlag) PageTableEntryFlag {
	pteFlags := pteValid | pteTable | pteAccessFlag

	if flags&FlagDevice != 0 {
		pteFlags |= pteAttrDevice | pteShareNone
	} else {
		pteFlags |= pteAttrNormal | pteShareInner
	}

	if flags&FlagUser != 0 {
		pteFlags |= pteUser
	}

	if flags&FlagWrite == 0 {
		pteFlags |= pteReadOnly
	}

	if flags&FlagExec == 0 {
		if flags&FlagUser != 0 {
			pteFlags |= pteUXN
		} else {
			pteFlags |= ptePXN
		}
	}

	return pteFlags
}
