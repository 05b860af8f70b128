// Package teams maps GitHub usernames to team names.
//
// Lookups are case-insensitive; usernames without a mapping fall back to the
// configured default team.
package teams

import (
	"sort"
	"strings"
	"sync"
)

// DefaultTeam is used when no team configuration names one.
const DefaultTeam = "unassigned"

// Mapper resolves usernames to teams. Safe for concurrent use.
type Mapper struct {
	mu          sync.RWMutex
	byUsername  map[string]string   // lowercased username -> team
	members     map[string][]string // team -> usernames as configured
	defaultTeam string
}

// NewMapper builds a Mapper from a team -> usernames mapping. An empty
// defaultTeam falls back to "unassigned".
func NewMapper(teamMembers map[string][]string, defaultTeam string) *Mapper {
	if defaultTeam == "" {
		defaultTeam = DefaultTeam
	}

	m := &Mapper{
		byUsername:  make(map[string]string),
		members:     make(map[string][]string),
		defaultTeam: defaultTeam,
	}
	for team, usernames := range teamMembers {
		for _, username := range usernames {
			m.byUsername[strings.ToLower(username)] = team
		}
		m.members[team] = append([]string(nil), usernames...)
	}
	return m
}

// TeamFor returns the team for a username, or the default team when the
// username is empty or unmapped.
func (m *Mapper) TeamFor(username string) string {
	if username == "" {
		return m.defaultTeam
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if team, ok := m.byUsername[strings.ToLower(username)]; ok {
		return team
	}
	return m.defaultTeam
}

// DefaultTeamName returns the configured fallback team.
func (m *Mapper) DefaultTeamName() string {
	return m.defaultTeam
}

// Members returns the configured usernames for a team, nil when unknown.
func (m *Mapper) Members(team string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.members[team]
	if members == nil {
		return nil
	}
	return append([]string(nil), members...)
}

// Teams returns all configured team names, sorted.
func (m *Mapper) Teams() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	teams := make([]string, 0, len(m.members))
	for team := range m.members {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// AddMapping assigns a username to a team at runtime.
func (m *Mapper) AddMapping(username, team string) {
	if username == "" || team == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUsername[strings.ToLower(username)] = team
	m.members[team] = append(m.members[team], username)
}

// Stats reports the mapping size per team plus the total username count.
func (m *Mapper) Stats() (perTeam map[string]int, totalUsers int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	perTeam = make(map[string]int, len(m.members))
	for team, usernames := range m.members {
		perTeam[team] = len(usernames)
	}
	return perTeam, len(m.byUsername)
}
