package types

// Model identifies which Game Boy hardware revision is being emulated. Only
// the distinction this core cares about — DMG vs CGB register/palette
// behaviour — is modelled; a full emulator would carry the finer-grained
// revisions (DMG0, MGB, SGB, CGB0...) the teacher repo tracks.
type Model int

const (
	DMG  Model = iota // Classic Game Boy / Game Boy Color running in compatibility mode
	CGB               // Game Boy Color running in colour mode
)

func (m Model) String() string {
	if m == CGB {
		return "CGB"
	}
	return "DMG"
}
