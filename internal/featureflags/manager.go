package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// flagValue is a parsed flag setting. Percentage flags bucket users
// deterministically so a user keeps the same answer across requests.
type flagValue struct {
	enabled bool
	percent int
	rollout bool
}

// Manager answers whether a named flag is on for a given user. Flags come
// from a comma-separated config string, e.g. "live_feed=on,dark_mode=25%".
type Manager struct {
	flags map[string]flagValue
}

// NewManager parses the config string. Malformed pairs are skipped rather
// than rejected so a bad flag never takes the server down.
func NewManager(raw string) *Manager {
	flags := make(map[string]flagValue)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = canonical(name)
		if name == "" {
			continue
		}
		fv, ok := parseValue(canonical(value))
		if !ok {
			continue
		}
		flags[name] = fv
	}
	return &Manager{flags: flags}
}

func parseValue(value string) (flagValue, bool) {
	switch value {
	case "on", "true", "1":
		return flagValue{enabled: true}, true
	case "off", "false", "0":
		return flagValue{}, true
	}
	pct, ok := strings.CutSuffix(value, "%")
	if !ok {
		return flagValue{}, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil || n < 0 {
		return flagValue{}, false
	}
	return flagValue{percent: n, rollout: true}, true
}

// Enabled reports whether the named flag is on for userID. Unknown flags
// are off. Rollout flags need a real user ID; userID 0 always gets false.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	fv, ok := m.flags[canonical(name)]
	if !ok {
		return false
	}
	if !fv.rollout {
		return fv.enabled
	}
	if fv.percent >= 100 {
		return true
	}
	if fv.percent <= 0 || userID == 0 {
		return false
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(canonical(name)))
	_, _ = h.Write([]byte(":" + strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32()%100) < fv.percent
}

// Snapshot evaluates every configured flag for one user, for handing the
// full flag set to a client in one shot.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
