// Package roles owns the canonical role table. Every other component resolves
// role names and privilege levels through this package and never keeps its own
// copy of the mapping.
package roles

const (
	Viewer  = "viewer"
	Member  = "member"
	Manager = "manager"
	Admin   = "admin"
	Owner   = "owner"
)

var roleLevels = map[string]int{
	Viewer:  20,
	Member:  40,
	Manager: 60,
	Admin:   80,
	Owner:   100,
}

// Model compares roles against the configured admin and top thresholds.
type Model struct {
	adminThreshold int
	topLevel       int
}

func NewModel(adminThreshold, topLevel int) *Model {
	return &Model{
		adminThreshold: adminThreshold,
		topLevel:       topLevel,
	}
}

// LevelOf returns the privilege level for a role name. Unknown roles map to
// level 0 so they fail every threshold check.
func (m *Model) LevelOf(role string) int {
	return roleLevels[role]
}

// Compare orders two roles by level: -1, 0 or 1.
func (m *Model) Compare(a, b string) int {
	la, lb := m.LevelOf(a), m.LevelOf(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	}
	return 0
}

func (m *Model) IsAtLeast(role string, threshold int) bool {
	return m.LevelOf(role) >= threshold
}

func (m *Model) IsAdmin(level int) bool {
	return level >= m.adminThreshold
}

// IsTop reports whether the level is the top authority tier, which bypasses
// escalation and quota checks.
func (m *Model) IsTop(level int) bool {
	return level >= m.topLevel
}

func (m *Model) AdminThreshold() int {
	return m.adminThreshold
}

func (m *Model) TopLevel() int {
	return m.topLevel
}

// Names returns the known role names.
func Names() []string {
	names := make([]string, 0, len(roleLevels))
	for name := range roleLevels {
		names = append(names, name)
	}
	return names
}
