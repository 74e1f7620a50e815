package game

// HasStatus reports whether any instance of the given status type is active.
func (p *PlayerState) HasStatus(t StatusType) bool {
	for _, s := range p.Statuses {
		if s.Type == t {
			return true
		}
	}
	return false
}

// StatusFrom returns the status of the given type attributed to sourceID.
func (p *PlayerState) StatusFrom(t StatusType, sourceID string) (Status, bool) {
	for _, s := range p.Statuses {
		if s.Type == t && s.SourceID == sourceID {
			return s, true
		}
	}
	return Status{}, false
}

// addStatus applies a status with one-instance-per-(type, source) semantics:
// reapplying overwrites the existing duration instead of stacking.
func (p *PlayerState) addStatus(st Status) {
	for i, s := range p.Statuses {
		if s.Type == st.Type && s.SourceID == st.SourceID {
			p.Statuses[i].Duration = st.Duration
			return
		}
	}
	p.Statuses = append(p.Statuses, st)
}

// clearStatus removes every instance of the given types regardless of source.
func (p *PlayerState) clearStatus(types ...StatusType) {
	kept := p.Statuses[:0]
	for _, s := range p.Statuses {
		drop := false
		for _, t := range types {
			if s.Type == t {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, s)
		}
	}
	p.Statuses = kept
}

// keepOnlyStatus removes everything except the given types.
func (p *PlayerState) keepOnlyStatus(types ...StatusType) {
	kept := p.Statuses[:0]
	for _, s := range p.Statuses {
		for _, t := range types {
			if s.Type == t {
				kept = append(kept, s)
				break
			}
		}
	}
	p.Statuses = kept
}

// tickStatuses decrements every durationed status and removes those that
// reach zero. Permanent statuses are unaffected. Called once at the start of
// the owner's turn; returns the expired types for logging.
func (p *PlayerState) tickStatuses() []StatusType {
	var expired []StatusType
	kept := p.Statuses[:0]
	for _, s := range p.Statuses {
		if s.Permanent() {
			kept = append(kept, s)
			continue
		}
		s.Duration--
		if s.Duration <= 0 {
			expired = append(expired, s.Type)
			continue
		}
		kept = append(kept, s)
	}
	p.Statuses = kept
	return expired
}
