package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMapper() *Mapper {
	return NewMapper(map[string][]string{
		"backend":  {"alice", "Bob"},
		"frontend": {"carol"},
	}, "")
}

func TestTeamForCaseInsensitive(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, "backend", m.TeamFor("alice"))
	assert.Equal(t, "backend", m.TeamFor("ALICE"))
	assert.Equal(t, "backend", m.TeamFor("bob"))
	assert.Equal(t, "frontend", m.TeamFor("Carol"))
}

func TestTeamForFallsBackToDefault(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, "unassigned", m.TeamFor("mallory"))
	assert.Equal(t, "unassigned", m.TeamFor(""))
}

func TestCustomDefaultTeam(t *testing.T) {
	m := NewMapper(nil, "contractors")
	assert.Equal(t, "contractors", m.TeamFor("anyone"))
	assert.Equal(t, "contractors", m.DefaultTeamName())
}

func TestMembersAndTeams(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, []string{"alice", "Bob"}, m.Members("backend"))
	assert.Nil(t, m.Members("ghost"))
	assert.Equal(t, []string{"backend", "frontend"}, m.Teams())
}

func TestAddMapping(t *testing.T) {
	m := newTestMapper()
	m.AddMapping("Dave", "backend")

	assert.Equal(t, "backend", m.TeamFor("dave"))
	assert.Contains(t, m.Members("backend"), "Dave")

	m.AddMapping("", "backend")
	m.AddMapping("eve", "")
	assert.Equal(t, "unassigned", m.TeamFor("eve"))
}

func TestStats(t *testing.T) {
	m := newTestMapper()
	perTeam, total := m.Stats()

	assert.Equal(t, 3, total)
	assert.Equal(t, 2, perTeam["backend"])
	assert.Equal(t, 1, perTeam["frontend"])
}
