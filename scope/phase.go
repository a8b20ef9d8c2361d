package scope

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDigest
	PhaseApply
)

func (p Phase) String() string {
	switch p {
	case PhaseDigest:
		return "$digest"
	case PhaseApply:
		return "$apply"
	default:
		return "idle"
	}
}

func (r *rootState) beginPhase(p Phase) error {
	if r.phase != PhaseIdle {
		return ErrDigestInProgress
	}
	r.phase = p
	return nil
}

func (r *rootState) clearPhase() {
	r.phase = PhaseIdle
}
